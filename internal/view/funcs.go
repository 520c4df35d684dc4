package view

import (
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/ignatzorin/proposals-console/internal/models"
)

const timeLayout = "Jan 2, 2006 15:04"

// Funcs функции шаблонов.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"na":       NA,
		"fmtTime":  FormatTime,
		"budget":   FormatBudget,
		"creator":  CreatorName,
		"fieldErr": FieldError,
		"selected": func(a, b string) bool { return strings.EqualFold(a, b) },
		"lower":    strings.ToLower,
	}
}

// NA подставляет "N/A" вместо пустого значения.
func NA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

// FormatTime форматирует время бэкенда; нулевое время даёт "N/A".
func FormatTime(ts models.Timestamp) string {
	if ts.IsZero() {
		return "N/A"
	}
	return ts.Local().Format(timeLayout)
}

// FormatBudget "$1,500.00"; пустой бюджет даёт "N/A".
func FormatBudget(b models.Budget) string {
	if !b.Valid {
		return "N/A"
	}
	neg := b.Value < 0
	v := b.Value
	if neg {
		v = -v
	}

	cents := int64(v*100 + 0.5)
	whole, frac := cents/100, cents%100

	digits := []byte(strconv.FormatInt(whole, 10))
	var out []byte
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, d)
	}

	s := "$" + string(out) + "." + fmt.Sprintf("%02d", frac)
	if neg {
		s = "-" + s
	}
	return s
}

// CreatorName имя автора; если бэкенд прислал только id, показываем его.
func CreatorName(c models.Creator) string {
	if name := c.Name(); name != "" {
		return name
	}
	if c.ID != 0 {
		return "User #" + strconv.FormatInt(c.ID, 10)
	}
	return "N/A"
}

// FieldError ошибка поля формы или пустая строка.
func FieldError(errs map[string]string, field string) string {
	if errs == nil {
		return ""
	}
	return errs[field]
}
