// Package experiment models DEMS experiment descriptions: the data folder,
// the default time shift and the ordered cycles with their calibration
// inputs.
//
// Descriptions are YAML documents:
//
//	date: 2019-03-01
//	data_folder: data/2019-03
//	interval: -0.4
//	experiment_name: exp_c_
//	cycles:
//	  107: {K_prefactor: 1.0, K_power: 1.0e-9}
//	  108: {K_prefactor: 1.1, K_power: 1.0e-9}
//	  120: {K_prefactor: 1.2, K_power: 1.0e-9, filename: exp_c_120_rerun.csv}
//
// Cycles keep document order. A cycle left out of the document is not
// evaluated.
//
// Descriptions are values. WithKPrefactors and WithInterval return updated
// copies, and Loader.Load returns a copy whose cycles carry their tables:
//
//	d, err := experiment.LoadDescription("exp.yaml")
//	d, err = experiment.NewLoader(experiment.LoaderOptions{}).Load(ctx, d)
//
// Synthetic expands one description into a family with a linearly drifting
// K prefactor, used to probe how robust the charges are to calibration drift.
package experiment
