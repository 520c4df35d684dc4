package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Proposal описывает предложение (котировку/возможность по клиенту).
type Proposal struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Client            string    `json:"client"`
	ClientName        string    `json:"client_name"`
	Site              string    `json:"site"`
	QuoteNumber       string    `json:"quote_number"`
	Budget            Budget    `json:"budget"`
	Description       string    `json:"description"`
	ResourceName      string    `json:"resource_name"`
	BusinessUnit      string    `json:"business_unit"`
	OpportunityStatus string    `json:"opportunity_status"`
	CreatedBy         Creator   `json:"created_by"`
	CreatedAt         Timestamp `json:"created_at"`
	UpdatedAt         Timestamp `json:"updated_at"`
}

// IsZero сообщает, что бэкенд вернул пустой объект.
func (p *Proposal) IsZero() bool {
	return p == nil || (p.ID == 0 && p.Name == "" && p.Client == "")
}

// ProposalFilter параметры GET /proposals.
type ProposalFilter struct {
	Name       string `form:"name" json:"name"`
	Client     string `form:"client" json:"client"`
	ClientName string `form:"client_name" json:"client_name"`
}

// ProposalFields редактируемые поля предложения (тело PUT/POST).
type ProposalFields struct {
	Name              string   `json:"name"`
	Client            string   `json:"client"`
	ClientName        string   `json:"client_name"`
	Site              string   `json:"site"`
	QuoteNumber       string   `json:"quote_number"`
	Budget            *float64 `json:"budget,omitempty"`
	Description       string   `json:"description"`
	ResourceName      string   `json:"resource_name"`
	BusinessUnit      string   `json:"business_unit"`
	OpportunityStatus string   `json:"opportunity_status"`
}

// ProposalMutationResponse ответ PUT /proposals/:id и POST /proposals.
type ProposalMutationResponse struct {
	Message  string   `json:"message"`
	Proposal Proposal `json:"proposal"`
}

// Budget бюджет, который бэкенд отдаёт числом, строкой или null.
type Budget struct {
	Value float64
	Valid bool
}

// NewBudget создаёт заданный бюджет.
func NewBudget(v float64) Budget {
	return Budget{Value: v, Valid: true}
}

// UnmarshalJSON принимает 1500, "1500.00", "" и null.
func (b *Budget) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*b = Budget{}
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			*b = Budget{}
			return nil
		}
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("models: некорректный бюджет %q: %w", raw, err)
	}
	*b = NewBudget(v)
	return nil
}

// MarshalJSON отдаёт число или null.
func (b Budget) MarshalJSON() ([]byte, error) {
	if !b.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(b.Value)
}

// String форматирует бюджет для форм; пустая строка, если не задан.
func (b Budget) String() string {
	if !b.Valid {
		return ""
	}
	return strconv.FormatFloat(b.Value, 'f', -1, 64)
}

// Creator автор предложения: бэкенд отдаёт либо id, либо объект.
type Creator struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// UnmarshalJSON принимает 7, "7", {"id":7,...} и null.
func (c *Creator) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = Creator{}
		return nil
	}

	switch data[0] {
	case '{':
		type plain Creator
		var p plain
		if err := json.Unmarshal(data, &p); err != nil {
			return err
		}
		*c = Creator(p)
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return fmt.Errorf("models: некорректный created_by %q: %w", s, err)
		}
		*c = Creator{ID: id}
		return nil
	default:
		var id int64
		if err := json.Unmarshal(data, &id); err != nil {
			return fmt.Errorf("models: некорректный created_by: %w", err)
		}
		*c = Creator{ID: id}
		return nil
	}
}

// Name возвращает имя автора для страницы деталей.
func (c Creator) Name() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// timestampLayouts форматы дат, которые встречаются в ответах Flask.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999",
	"2006-01-02T15:04:05",
	time.RFC1123,
	"2006-01-02",
}

// Timestamp время из ответа бэкенда; нулевое значение означает "нет даты".
type Timestamp struct {
	time.Time
}

// UnmarshalJSON разбирает ISO-8601 (с зоной и без) и RFC1123.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*t = Timestamp{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("models: дата должна быть строкой: %w", err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*t = Timestamp{}
		return nil
	}

	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = Timestamp{Time: parsed}
			return nil
		}
	}
	return fmt.Errorf("models: неизвестный формат даты %q", s)
}

// MarshalJSON отдаёт RFC3339 или null.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339))
}
