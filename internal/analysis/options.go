package analysis

// Options holds the fixed model parameters of the pipeline. They are constants of the
// service, not request inputs.
type Options struct {
	// DateSampleSize is how many non-missing values are sampled per column for date detection.
	DateSampleSize int
	// DateThreshold is the fraction of sampled values that must parse as dates.
	DateThreshold float64
	// Contamination is the expected share of outliers for the isolation forest.
	Contamination float64
	// Seed makes the isolation forest reproducible.
	Seed int64
	// Trees and MaxSamples size the isolation forest.
	Trees      int
	MaxSamples int
	// ForecastHorizon is the number of future points projected by the time-series trend.
	ForecastHorizon int
}

// Seed used for anomaly detection unless a caller overrides it in tests.
const DefaultSeed int64 = 42

// DefaultOptions returns the parameters used by the service.
func DefaultOptions() Options {
	return Options{
		DateSampleSize:  5,
		DateThreshold:   0.8,
		Contamination:   0.10,
		Seed:            DefaultSeed,
		Trees:           100,
		MaxSamples:      256,
		ForecastHorizon: 3,
	}
}

// withDefaults fills zero fields from DefaultOptions.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.DateSampleSize <= 0 {
		o.DateSampleSize = d.DateSampleSize
	}
	if o.DateThreshold <= 0 {
		o.DateThreshold = d.DateThreshold
	}
	if o.Contamination <= 0 || o.Contamination > 0.5 {
		o.Contamination = d.Contamination
	}
	if o.Trees <= 0 {
		o.Trees = d.Trees
	}
	if o.MaxSamples <= 0 {
		o.MaxSamples = d.MaxSamples
	}
	if o.ForecastHorizon <= 0 {
		o.ForecastHorizon = d.ForecastHorizon
	}
	return o
}
