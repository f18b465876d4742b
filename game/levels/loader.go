package levels

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// LoadAll fetches level 1, 2, 3... until the first fetch fails. A failure
// just ends the collection; only a cancelled context is reported.
func LoadAll(ctx context.Context, src Source) ([]string, error) {
	var texts []string
	for n := 1; ; n++ {
		text, err := src.Fetch(ctx, n)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			log.Debugf("Stopped loading levels at %d: %v", n, err)
			return texts, nil
		}
		texts = append(texts, text)
	}
}
