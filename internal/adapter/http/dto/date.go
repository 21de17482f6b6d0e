package dto

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rocksti/pagafacil/internal/domain"
)

// Date is a calendar date encoded as "yyyy-MM-dd".
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	return Date{Time: domain.Date(t)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(domain.DateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string in %s format", domain.DateLayout)
	}
	t, err := domain.ParseDate(s)
	if err != nil {
		return fmt.Errorf("date %q is not in %s format", s, domain.DateLayout)
	}
	d.Time = t
	return nil
}
