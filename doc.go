// Package rostercache manages a large, periodically refreshed roster
// dataset fetched over the network: durable local storage, chunked
// background ingestion, pagination, time-based staleness and multi-level
// fallback to cached data on failure.
//
// # Quick Start
//
//	sess, err := session.New(userID, email, "prod")
//	if err != nil {
//	    return err
//	}
//	st, err := sqlite.Open("./roster.db")
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//
//	rc, err := rostercache.New(st, fetch.New(endpoint), sess,
//	    rostercache.WithStalenessWindow(6*time.Hour),
//	    rostercache.WithLogLevel(slog.LevelInfo),
//	)
//	if err != nil {
//	    return err
//	}
//
//	res, err := rc.Load(ctx, false)
//	if err != nil {
//	    return err
//	}
//	if res.Stale {
//	    banner(res.Warning) // serving cached data, sync did not happen
//	}
//	render(res.Records, res.TotalCount)
//
//	page3, err := rc.Page(ctx, 3) // local read, never touches the network
//
// # Load Behavior
//
// Load serves page 1 straight from the local store when the last ingestion
// is younger than the staleness window and the store is non-empty. Otherwise
// it fetches the full roster, streams it through the chunker into the store
// in fixed-size atomic batches, stamps the ingestion time and returns the
// fresh page 1. Any fetch or ingestion failure falls back to whatever is
// already persisted, annotating the result with a warning; the error only
// propagates when the store is empty too. A forced refresh clears the store
// strictly after new data is confirmed available, so a failed refresh never
// destroys usable data.
//
// Only one Load runs at a time; concurrent calls return ErrLoadInProgress
// rather than queueing or duplicating network work.
package rostercache
