// Package pipeline implements the resilient chart load pipeline: a retry/
// backoff controller driving the fetch → extract → verify → decode sequence,
// a closed failure taxonomy, a digest verifier, and a dual-verbosity event
// logger.
//
// The Loader owns retry policy and failure classification so call sites
// don't re-implement either. External collaborators (Fetcher, Extractor,
// Decoder, DigestProvider) stay out of scope: the pipeline only governs a
// load attempt's reliability and observability contract.
//
// Typical wiring:
//
//	events := pipeline.NewEventLogger()
//	events.SetLineSink(func(line string) { fmt.Println(line) })
//
//	loader := pipeline.NewLoader(pipeline.Deps{
//	    Fetcher:   fetcher,
//	    Extractor: extractor,
//	    Decoder:   decoder,
//	    Digests:   catalog,
//	}, pipeline.DefaultConfig(), events, logger.ComponentLogger("pipeline"))
//
//	outcome := loader.LoadChart(ctx, "US5WA50M", 3)
package pipeline
