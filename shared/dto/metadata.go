package dto

import (
	"time"

	"cowork/shared/constant"
	"cowork/shared/model"
	"cowork/shared/timezone"
)

// Metadata is the audit trail as rendered to clients, timestamps in RFC 3339.
type Metadata struct {
	CreatedAt  string `json:"created_at"`
	ModifiedAt string `json:"modified_at"`
	CreatedBy  string `json:"created_by"`
	ModifiedBy string `json:"modified_by"`
}

func (m *Metadata) FromModel(source model.Metadata) {
	*m = Metadata{
		CreatedAt:  stamp(source.CreatedAt),
		ModifiedAt: stamp(source.ModifiedAt),
		CreatedBy:  source.CreatedBy,
		ModifiedBy: source.ModifiedBy,
	}
}

// stamp leaves unset timestamps empty instead of rendering year one.
func stamp(at time.Time) string {
	if at.IsZero() {
		return constant.Empty
	}

	return timezone.Format(at, constant.DateFormat)
}
