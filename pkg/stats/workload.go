// Package stats 提供排班工作量统计
package stats

import (
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/turnario/turnario/pkg/model"
)

// EmployeeWorkload 单个员工的一周工作量
type EmployeeWorkload struct {
	EmployeeID    uuid.UUID `json:"employee_id"`
	Name          string    `json:"name"`
	TotalHours    float64   `json:"total_hours"`
	ShiftCount    int       `json:"shift_count"`
	EveningShifts int       `json:"evening_shifts"`
	Deviation     float64   `json:"deviation"` // 与人均工时的偏差百分比
}

// WeekWorkload 一周的工作量汇总
type WeekWorkload struct {
	AvgHours     float64            `json:"avg_hours"`
	MaxHours     float64            `json:"max_hours"`
	MinHours     float64            `json:"min_hours"`
	WorkloadGini float64            `json:"workload_gini"` // 0=完全均衡
	Employees    []EmployeeWorkload `json:"employees"`
}

// ComputeWorkload 统计一周内每个已排员工的工时分布
// 只计 active 班次；工时用分钟数换算，跨午夜班次整体计入开始日
func ComputeWorkload(shifts []model.Shift, names map[uuid.UUID]string) *WeekWorkload {
	byEmp := make(map[uuid.UUID]*EmployeeWorkload)
	for i := range shifts {
		s := &shifts[i]
		if !s.IsActive() {
			continue
		}
		w, ok := byEmp[s.EmployeeID]
		if !ok {
			w = &EmployeeWorkload{EmployeeID: s.EmployeeID, Name: names[s.EmployeeID]}
			byEmp[s.EmployeeID] = w
		}
		w.TotalHours += s.Hours()
		w.ShiftCount++
		if model.BucketPeriod(s.StartTime) == model.PeriodEvening {
			w.EveningShifts++
		}
	}

	out := &WeekWorkload{}
	if len(byEmp) == 0 {
		return out
	}

	hours := make([]float64, 0, len(byEmp))
	total := 0.0
	out.MinHours = math.MaxFloat64
	for _, w := range byEmp {
		hours = append(hours, w.TotalHours)
		total += w.TotalHours
		if w.TotalHours > out.MaxHours {
			out.MaxHours = w.TotalHours
		}
		if w.TotalHours < out.MinHours {
			out.MinHours = w.TotalHours
		}
		out.Employees = append(out.Employees, *w)
	}
	out.AvgHours = total / float64(len(byEmp))
	out.WorkloadGini = gini(hours)

	for i := range out.Employees {
		if out.AvgHours > 0 {
			out.Employees[i].Deviation = (out.Employees[i].TotalHours - out.AvgHours) / out.AvgHours * 100
		}
	}
	sort.Slice(out.Employees, func(i, j int) bool {
		if out.Employees[i].TotalHours != out.Employees[j].TotalHours {
			return out.Employees[i].TotalHours > out.Employees[j].TotalHours
		}
		return out.Employees[i].EmployeeID.String() < out.Employees[j].EmployeeID.String()
	})
	return out
}

// gini 基尼系数，衡量工时分配的不均衡程度
func gini(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	sum := 0.0
	weighted := 0.0
	for i, v := range sorted {
		sum += v
		weighted += float64(i+1) * v
	}
	if sum == 0 {
		return 0
	}
	return (2*weighted - float64(n+1)*sum) / (float64(n) * sum)
}
