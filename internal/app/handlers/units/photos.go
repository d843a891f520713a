package units

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/dto"
	"stayhub/internal/app/outbox"
	domainunits "stayhub/internal/domain/units"
	"stayhub/internal/infra/storage/s3"
)

const uploadUnitPhotoKey = "units.photos.upload"

type UploadUnitPhotoCommand struct {
	HostID      string
	UnitID      string
	ObjectKey   string
	ContentType string
	Reader      io.Reader
}

func (c UploadUnitPhotoCommand) Key() string { return uploadUnitPhotoKey }

type UploadUnitPhotoHandler struct {
	Logger   *slog.Logger
	Units    domainunits.Repository
	Uploader s3.Uploader
	Outbox   outbox.Outbox
	Encoder  outbox.EventEncoder
	Now      func() time.Time
}

func (h *UploadUnitPhotoHandler) Handle(ctx context.Context, cmd UploadUnitPhotoCommand) (*dto.UnitPhotoUploadResult, error) {
	if h.Uploader == nil {
		return nil, errors.New("photo uploader unavailable")
	}
	if cmd.Reader == nil {
		return nil, errors.New("photo reader is required")
	}
	if strings.TrimSpace(cmd.ObjectKey) == "" {
		return nil, errors.New("object key is required")
	}

	unit, err := OwnedUnit(ctx, h.Units, cmd.UnitID, cmd.HostID)
	if err != nil {
		return nil, err
	}

	publicURL, err := h.Uploader.Upload(ctx, cmd.ObjectKey, cmd.Reader, cmd.ContentType)
	if err != nil {
		return nil, fmt.Errorf("upload photo: %w", err)
	}

	if err := unit.AddPhoto(publicURL, now(h.Now)); err != nil {
		return nil, err
	}
	if err := h.Units.Save(ctx, unit); err != nil {
		return nil, err
	}
	if err := outbox.Drain(ctx, h.Outbox, h.Encoder, &unit.EventRecorder); err != nil {
		return nil, err
	}

	if h.Logger != nil {
		h.Logger.Info("unit photo added", "unit_id", unit.ID, "host_id", cmd.HostID, "object_key", cmd.ObjectKey)
	}
	return &dto.UnitPhotoUploadResult{
		UnitID: cmd.UnitID,
		Photos: append([]string(nil), unit.Photos...),
	}, nil
}

var _ commands.Handler[UploadUnitPhotoCommand, *dto.UnitPhotoUploadResult] = (*UploadUnitPhotoHandler)(nil)
