package common

import (
	"github.com/google/uuid"
)

// NewReportID generates a unique report document ID.
// Format: rpt_<uuid>
func NewReportID() string {
	return "rpt_" + uuid.New().String()
}
