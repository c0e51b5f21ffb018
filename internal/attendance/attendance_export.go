package attendance

import (
	"encoding/csv"
	"io"
)

var csvHeader = []string{
	"date", "user_id", "employee_id", "name", "email", "department",
	"status", "reason", "marked_at", "marked_by",
}

// WriteCSV writes rows with a header line. Optional columns are left
// empty when unset.
func WriteCSV(w io.Writer, rows []RecordResponse) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{
			r.Date,
			r.UserID,
			deref(r.EmployeeID),
			r.EmployeeName,
			r.Email,
			deref(r.Department),
			string(r.Status),
			deref(r.Reason),
			r.MarkedAt,
			r.MarkedBy,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
