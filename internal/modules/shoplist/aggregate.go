package shoplist

import "foodgram/internal/repository"

// Line: строка списка покупок, суммарное количество одного продукта.
type Line struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	TotalAmount     int    `json:"total_amount"`
}

type lineKey struct {
	name string
	unit string
}

// Aggregate складывает количества по паре (название, единица). Id ингредиента
// не учитывается: одинаковые названия с одной единицей сливаются в одну строку.
// Порядок строк: порядок первого появления во входных данных.
func Aggregate(rows []repository.CartIngredientRow) []Line {
	lines := make([]Line, 0, len(rows))
	index := make(map[lineKey]int, len(rows))

	for _, r := range rows {
		k := lineKey{name: r.Name, unit: r.MeasurementUnit}
		if i, ok := index[k]; ok {
			lines[i].TotalAmount += r.Amount
			continue
		}
		index[k] = len(lines)
		lines = append(lines, Line{Name: r.Name, MeasurementUnit: r.MeasurementUnit, TotalAmount: r.Amount})
	}
	return lines
}
