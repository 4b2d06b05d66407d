// Package godems evaluates differential electrochemical mass spectrometry
// (DEMS) cyclic voltammetry experiments.
//
// A cycle pairs the electrode current with the ion current of one mass
// channel. Evaluating it takes four steps:
//
//  1. baseline: subtract the pre-reaction level of the ion current and
//     median-filter it
//  2. timeshift: shift the ion current by the mass spectrometer transit time,
//     convert it to a simulated electrode current with the factor K and join
//     both on time
//  3. integrate: split the joined cycle at the vertex potential and
//     integrate nine charge regions
//  4. batch and sweep: evaluate every cycle of an experiment, then repeat
//     over a grid of time shifts and K prefactors and aggregate the charges
//     by vertex potential
//
// # Quick Start
//
// Evaluate one experiment:
//
//	desc, _ := experiment.LoadDescription("exp_c.yaml")
//	desc, _ = experiment.NewLoader(experiment.DefaultLoaderOptions()).Load(ctx, desc)
//	ov, _ := batch.Run(ctx, desc, batch.Options{})
//	for _, c := range ov.CycleDescriptions() {
//		fmt.Println(c.Cycle.Number, c.Summary.TotalJ)
//	}
//
// Sweep the parameter grid and export the tables:
//
//	res, _ := sweep.Run(ctx, []experiment.Description{desc}, sweep.DefaultConfig())
//	export.WriteXLSX("sweep.xlsx", res)
//
// The demsweep command under cmd/ wraps these steps; package simulate
// produces synthetic cycles with known charges.
package godems
