/*
 * Copyright (c) 2024. Anton Starikov -- All Rights Reserved
 *
 * This file is part of HCOPT project.
 *
 * HCOPT is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as the Free Software Foundation,
 * either version 3 of the License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */

package internal

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/antst/hcopt/internal/planner"
)

// WhatIfOutcome is the projected result of one debt-allowance variant.
type WhatIfOutcome struct {
	MaxBufferDebt float64        `json:"max_buffer_debt_kwh"`
	Status        planner.Status `json:"status"`
	TotalCost     float64        `json:"total_cost"`
	TotalSavings  float64        `json:"total_savings"`
	Offsets       []int          `json:"offsets"`
}

// RunWhatIf plans the same input under several max-debt allowances in
// parallel. Planning calls share no mutable state, so each variant gets
// its own shallow input copy and runs on its own goroutine.
func RunWhatIf(ctx context.Context, base *planner.Input, debts []float64) ([]WhatIfOutcome, error) {
	outcomes := make([]WhatIfOutcome, len(debts))

	g, ctx := errgroup.WithContext(ctx)
	for i, debt := range debts {
		i, debt := i, debt
		g.Go(func() error {
			variant := *base
			variant.MaxBufferDebt = debt
			if variant.InitialBuffer < -debt {
				variant.InitialBuffer = -debt
			}
			r, err := planner.Plan(ctx, &variant)
			if err != nil {
				return err
			}
			outcomes[i] = WhatIfOutcome{
				MaxBufferDebt: debt,
				Status:        r.Status,
				TotalCost:     r.TotalCost,
				TotalSavings:  r.TotalSavings,
				Offsets:       r.Offsets,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}
