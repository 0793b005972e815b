package workout

import (
	"strings"

	"github.com/2beens/vibefit/internal/config"
)

type MenuItem struct {
	Exercise string
	Weights  []float64
}

// Menu maps exercise names to suggested weights, in display order.
// It is read-only after startup.
type Menu struct {
	items []MenuItem
	index map[string]int
}

func NewMenu(items []MenuItem) Menu {
	m := Menu{
		index: make(map[string]int, len(items)),
	}
	for _, item := range items {
		name := strings.TrimSpace(item.Exercise)
		if name == "" {
			continue
		}
		if _, ok := m.index[name]; ok {
			continue
		}
		m.index[name] = len(m.items)
		m.items = append(m.items, MenuItem{
			Exercise: name,
			Weights:  append([]float64(nil), item.Weights...),
		})
	}
	return m
}

// MenuFromConfig falls back to DefaultMenu when the config has no menu.
func MenuFromConfig(items []config.MenuItem) Menu {
	if len(items) == 0 {
		return DefaultMenu()
	}
	menuItems := make([]MenuItem, 0, len(items))
	for _, item := range items {
		menuItems = append(menuItems, MenuItem{
			Exercise: item.Exercise,
			Weights:  item.Weights,
		})
	}
	return NewMenu(menuItems)
}

func DefaultMenu() Menu {
	return NewMenu([]MenuItem{
		{Exercise: "深蹲", Weights: []float64{40, 60, 80, 100}},
		{Exercise: "硬舉", Weights: []float64{60, 80, 100, 120}},
		{Exercise: "臥推", Weights: []float64{30, 40, 50, 60}},
		{Exercise: "肩推", Weights: []float64{20, 25, 30, 35}},
		{Exercise: "划船", Weights: []float64{30, 40, 50}},
		{Exercise: "分腿蹲", Weights: []float64{10, 15, 20}},
		{Exercise: "跑步"},
	})
}

func (m Menu) Items() []MenuItem {
	return m.items
}

func (m Menu) Exercises() []string {
	names := make([]string, 0, len(m.items))
	for _, item := range m.items {
		names = append(names, item.Exercise)
	}
	return names
}

func (m Menu) Has(exercise string) bool {
	_, ok := m.index[exercise]
	return ok
}

// Weights returns the suggested weights for the exercise, nil if it has none.
func (m Menu) Weights(exercise string) []float64 {
	i, ok := m.index[exercise]
	if !ok {
		return nil
	}
	return m.items[i].Weights
}

// FirstWeight is the first suggestion for the exercise, or 0 without suggestions.
func (m Menu) FirstWeight(exercise string) float64 {
	weights := m.Weights(exercise)
	if len(weights) == 0 {
		return 0
	}
	return weights[0]
}
