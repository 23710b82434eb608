// Copyright (c) 2026 Crystalbox. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package shipment

import "github.com/taibuivan/crystalbox/internal/platform/constants"

// # Calendar

// Period is a calendar month with a 0-based month index.
type Period struct {
	Month int
	Year  int
}

// Index orders periods on a single axis: year*12 + month.
func (period Period) Index() int {
	return period.Year*constants.MonthsPerYear + period.Month
}

// previous returns the month before, rolling January back into December.
func (period Period) previous() Period {
	if period.Month == 0 {
		return Period{Month: constants.MonthsPerYear - 1, Year: period.Year - 1}
	}
	return Period{Month: period.Month - 1, Year: period.Year}
}

// # Lookback

// LookbackQuery asks for crystals already shipped before a target box.
type LookbackQuery struct {
	SubscriptionID int
	Month          int
	Year           int
	Cycles         []int

	// Depth is the number of cycle steps to walk back. Zero selects the configured default.
	Depth int
}

// Step is one cycle visited by the backward walk.
type Step struct {
	Period
	Cycle int
}

/*
Walk lists the cycles visited when stepping back from a target box.

Description: The counter starts at startCycle and is decremented once per
step. When it drops below 1 the walk moves to the previous calendar month and
resets the counter to cycleLength. Exactly depth steps are produced, so the
walk is always finite.

Example: month=0 (January) 2024, startCycle=2, cycleLength=12, depth=2 yields
(Jan 2024, cycle 1) then (Dec 2023, cycle 12).
*/
func Walk(target Period, startCycle, cycleLength, depth int) []Step {
	steps := make([]Step, 0, max(depth, 0))

	period, counter := target, startCycle
	for range depth {
		counter--
		if counter < 1 {
			period = period.previous()
			counter = cycleLength
		}
		steps = append(steps, Step{Period: period, Cycle: counter})
	}

	return steps
}

// window is the inclusive period range covered by a set of steps together
// with the membership test applied to candidate shipments.
type window struct {
	from, to  Period
	months    map[Period]struct{}
	exact     map[Step]struct{}
	monthWide bool
}

func newWindow(steps []Step, monthWide bool) window {
	w := window{
		months:    make(map[Period]struct{}, len(steps)),
		exact:     make(map[Step]struct{}, len(steps)),
		monthWide: monthWide,
	}

	for i, step := range steps {
		if i == 0 || step.Index() < w.from.Index() {
			w.from = step.Period
		}
		if i == 0 || step.Index() > w.to.Index() {
			w.to = step.Period
		}
		w.months[step.Period] = struct{}{}
		w.exact[step] = struct{}{}
	}

	return w
}

// matches reports whether a shipment was visited by the walk.
//
// In month-wide mode any shipment in a visited month counts, whatever its cycle.
func (w window) matches(shipment *Shipment) bool {
	if w.monthWide {
		_, ok := w.months[shipment.Period()]
		return ok
	}
	_, ok := w.exact[Step{Period: shipment.Period(), Cycle: shipment.Cycle}]
	return ok
}
