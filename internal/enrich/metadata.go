package enrich

import (
	"context"

	"github.com/sirupsen/logrus"
)

// FetchMetadata fetches the JSON document behind an Arweave/IPFS URI.
// Any failure — bad URI, non-200, timeout, unparseable body — returns
// an empty Metadata.
func (e *Enricher) FetchMetadata(ctx context.Context, uri string) Metadata {
	var meta Metadata
	if uri == "" {
		return meta
	}

	fetchCtx, cancel := context.WithTimeout(ctx, e.metaTimeout)
	defer cancel()

	resp, err := e.http.R().
		SetContext(fetchCtx).
		SetResult(&meta).
		Get(uri)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"uri":   uri,
			"error": err.Error(),
		}).Debug("⚠️  Metadata fetch failed")
		return Metadata{}
	}

	if resp.StatusCode() != 200 {
		logrus.WithFields(logrus.Fields{
			"uri":    uri,
			"status": resp.StatusCode(),
		}).Debug("⚠️  Metadata fetch returned non-200")
		return Metadata{}
	}

	return meta
}
