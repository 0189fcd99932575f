package models

import (
	"bytes"
	"fmt"
	"time"
)

// DateLayout формат календарной даты в JSON.
const DateLayout = "2006-01-02"

// Date календарная дата без времени, сериализуется как "YYYY-MM-DD".
type Date struct {
	time.Time
}

// NewDate отбрасывает время суток и приводит дату к UTC.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("models.Date: invalid value %s", data)
	}
	t, err := time.Parse(DateLayout, string(data[1:len(data)-1]))
	if err != nil {
		return fmt.Errorf("models.Date: %w", err)
	}
	d.Time = t
	return nil
}
