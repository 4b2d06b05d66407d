// Package integrate computes the charge passed in the potential regions of
// an aligned DEMS cycle.
//
// A cycle is split at its vertex (the first sample of maximum potential)
// into a positive-going and a negative-going scan. Nine regions combine a
// scan, a channel and a sign filter:
//
//	Q_tot_j          current density, full cycle, j > 0
//	Q_tot_j_pos      current density, positive scan, j > 0
//	Q_tot_j_neg      current density, negative scan, j > 0, no potential bounds
//	Q cathodic       |current density|, negative scan, j < 0
//	Q_tot_M          simulated current, full cycle
//	Q_tot_M_pos      simulated current, positive scan
//	Q_tot_M_neg      simulated current, negative scan
//	Q_tot_j_sim_pos  residual current, positive scan
//	Q_tot_j_sim_neg  residual current, negative scan, residual < 0
//
// Potential bounds are exclusive and default to one volt beyond the observed
// range. Every region except Q_tot_j_neg honours a lower bound; only the
// residual regions Q_tot_j_sim_pos and Q_tot_j_sim_neg honour an upper bound.
// Limits override them per region:
//
//	limits, err := integrate.ParseLimits(map[string]integrate.LimitSpec{
//	    "Q_tot_j":         {Lower: &lo},
//	    "Q_tot_j_sim_pos": {Lower: &lo, Upper: &hi},
//	})
//	res, err := integrate.New(aligned, limits)
//	fmt.Println(res.Summary().Round(3).DiffPos)
//
// Charges are reported in µC/cm² as the absolute value of the cumulative
// trapezoidal integral over time. An empty cathodic selection has charge 0;
// any other empty region is an error.
package integrate
