package baseband

import (
	"context"
	"fmt"
	"sync"
)

// SynthesizeBatch renders every request and returns the outputs in request
// order. When parallel is true the requests are rendered concurrently;
// otherwise they run one after the other and the first failure stops the
// batch.
//
// With parallel set, a Synthesizer shared between requests must be safe for
// concurrent use.
func SynthesizeBatch(ctx context.Context, reqs []Request, parallel bool) ([][]complex64, error) {
	output := make([][]complex64, len(reqs))

	if !parallel || len(reqs) <= 1 {
		for i := range reqs {
			samples, err := Synthesize(ctx, reqs[i])
			if err != nil {
				return nil, fmt.Errorf("request %d: %w", i, err)
			}
			output[i] = samples
		}
		return output, nil
	}

	var wg sync.WaitGroup
	errChan := make(chan error, len(reqs))

	for i := range reqs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			samples, err := Synthesize(ctx, reqs[idx])
			if err != nil {
				errChan <- fmt.Errorf("request %d: %w", idx, err)
				return
			}
			output[idx] = samples
		}(i)
	}

	wg.Wait()
	close(errChan)

	for err := range errChan {
		if err != nil {
			return nil, err
		}
	}

	return output, nil
}
