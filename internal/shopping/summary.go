package shopping

import "github.com/danprasetia/belanja/internal/model"

// TaskView is a task annotated for rendering.
type TaskView struct {
	model.Task
	Seller     string  `json:"seller"`
	Subtotal   float64 `json:"subtotal"`
	Incomplete bool    `json:"incomplete"`
}

// SellerGroup is one seller's slice of the summary.
type SellerGroup struct {
	Seller      string     `json:"seller"`
	Tasks       []TaskView `json:"tasks"`
	Subtotal    float64    `json:"subtotal"`
	AllComplete bool       `json:"all_complete"`
}

// Summary is the grouped, sorted, and totaled view of a todo list.
type Summary struct {
	Groups     []SellerGroup `json:"groups"`
	GrandTotal float64       `json:"grand_total"`
}

// Summarize builds the display view: tasks grouped by resolved seller in
// display order, each task annotated with its subtotal and incompleteness,
// each group with its subtotal and all-complete state.
func Summarize(tasks []model.Task, sellers []model.Seller) Summary {
	groups := Group(tasks, sellers)

	summary := Summary{
		Groups:     make([]SellerGroup, 0, len(groups)),
		GrandTotal: GrandTotal(tasks),
	}
	for _, name := range SortedNames(groups) {
		group := SellerGroup{
			Seller:      name,
			Tasks:       make([]TaskView, 0, len(groups[name])),
			Subtotal:    Subtotal(groups[name]),
			AllComplete: AllComplete(groups[name]),
		}
		for _, t := range groups[name] {
			group.Tasks = append(group.Tasks, TaskView{
				Task:       t,
				Seller:     name,
				Subtotal:   float64(t.Price) * t.Quantity,
				Incomplete: IsIncomplete(t, sellers),
			})
		}
		summary.Groups = append(summary.Groups, group)
	}
	return summary
}
