package authoring

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"coursestudio/internal/models"
)

// FormatRoubles: подпись оси значений: "₽1200".
func FormatRoubles(v float64) string {
	return "₽" + strconv.FormatFloat(v, 'f', -1, 64)
}

// ChartSeries: данные столбчатой диаграммы выручки по курсам.
type ChartSeries struct {
	Points       []models.ChartPoint
	TotalRevenue float64
	TotalSales   int
}

func NewChartSeries(r *models.PerformanceReport) ChartSeries {
	if r == nil {
		return ChartSeries{}
	}
	return ChartSeries{
		Points:       append([]models.ChartPoint(nil), r.Data...),
		TotalRevenue: r.TotalRevenue,
		TotalSales:   r.TotalSales,
	}
}

func (s ChartSeries) Max() float64 {
	var m float64
	for _, p := range s.Points {
		if p.Total > m {
			m = p.Total
		}
	}
	return m
}

// Ticks: n+1 равномерных делений оси от 0 до максимума.
func (s ChartSeries) Ticks(n int) []string {
	if n <= 0 {
		return nil
	}
	max := s.Max()
	out := make([]string, 0, n+1)
	for i := 0; i <= n; i++ {
		out = append(out, FormatRoubles(max*float64(i)/float64(n)))
	}
	return out
}

// Render рисует горизонтальные столбцы шириной до width символов.
func (s ChartSeries) Render(w io.Writer, width int) error {
	nameW := 0
	for _, p := range s.Points {
		if l := utf8.RuneCountInString(p.Name); l > nameW {
			nameW = l
		}
	}
	max := s.Max()
	for _, p := range s.Points {
		bar := 0
		if max > 0 {
			bar = int(p.Total / max * float64(width))
		}
		pad := strings.Repeat(" ", nameW-utf8.RuneCountInString(p.Name))
		if _, err := fmt.Fprintf(w, "%s%s │%s %s\n", p.Name, pad, strings.Repeat("█", bar), FormatRoubles(p.Total)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Выручка: %s, продаж: %d\n", FormatRoubles(s.TotalRevenue), s.TotalSales)
	return err
}
