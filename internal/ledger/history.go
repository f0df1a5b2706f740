package ledger

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/clinicbackend/internal/models"
)

// RawRecord is one entry exactly as the history program returns it, in
// ledger append order (oldest first).
type RawRecord struct {
	DoctorName string `json:"doctorName"`
	Disease    string `json:"disease"`
	Content    string `json:"content"`
	Timestamp  int64  `json:"timestamp"`
}

func decodeRecords(payload []byte) ([]RawRecord, error) {
	if len(payload) == 0 {
		return nil, nil
	}
	var records []RawRecord
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("decoding history payload: %v", err)
	}
	return records, nil
}

// AssembleHistory maps raw ledger records 1:1 onto HistoryEntry values and
// reverses them so the most recently appended entry comes first. The
// reversal is a presentation decision; the ledger itself only guarantees
// append order. Nothing is dropped or deduplicated.
func AssembleHistory(patientID string, raw []RawRecord) []models.HistoryEntry {
	entries := make([]models.HistoryEntry, len(raw))
	for i, record := range raw {
		entries[len(raw)-1-i] = models.HistoryEntry{
			PatientID:  patientID,
			DoctorName: record.DoctorName,
			Disease:    record.Disease,
			Content:    record.Content,
			RecordedAt: time.Unix(record.Timestamp, 0).UTC(),
		}
	}
	return entries
}
