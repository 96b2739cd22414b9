// Package ensemble blends several independently fitted models into one
// weighted forecast.
//
// Members run through a Runner, normally the engine's model dispatch. A member
// that fails is recorded in Result.Failures and excluded; the remaining prior
// weights are renormalised to sum to 1:
//
//	res, err := ensemble.Combine(values, 30, ensemble.DefaultMembers(len(values)), runner, nil)
//	for _, f := range res.Failures {
//	    log.Warn("member failed", "model", f.Kind, "error", f.Err)
//	}
//
// The blended forecast, every interval bound and the in-sample fitted values
// are weight-dotted sums of the surviving members' outputs. Because each bound
// is a convex combination of ordered bounds, the blend stays ordered.
package ensemble
