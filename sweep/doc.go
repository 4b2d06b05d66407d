// Package sweep explores how the integrated charges depend on the two
// uncertain parameters of a DEMS evaluation: the time shift between the
// instruments and the calibration prefactor.
//
// Run evaluates the Cartesian product TimeShifts × KShifts × FixedKs for
// every description, each point as one batch.Overview, on a bounded worker
// pool. A combination that fails is logged and listed in Result.Failures.
// With Config.Filter, an Overview in which any cycle has a negative
// Q_diff_pos or Q_tot_j - Q_tot_M is discarded as a whole.
//
//	cfg := sweep.DefaultConfig()
//	cfg.Filter = true
//	res, err := sweep.Run(ctx, descs, cfg)
//
// The surviving cycles form the long table, sorted by vertex potential.
// Vertex potentials are discretised with VertexBucket and the short table
// holds the count, mean and standard deviation of every summary key per
// bucket.
package sweep
