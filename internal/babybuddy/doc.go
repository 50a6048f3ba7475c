// Package babybuddy provides an asynchronous client for the Baby Buddy REST API.
//
// # Overview
//
// The client covers children, timers and the timeline records Baby Buddy
// keeps for a child: sleep, tummy time, feedings and diaper changes. It is
// written for callers that live on a single event loop, such as a terminal
// UI. No method blocks; every outcome comes back through a callback that runs
// on the caller's loop.
//
// # Architecture
//
//   - timecodec.go: wire date parsing and formatting
//   - models.go: Child, Timer, collection tags and feeding enumerations
//   - entries.go: the timeline record family and its per-kind decoders
//   - query.go: QueryValues for list queries and PATCH bodies
//   - clock.go: server clock offset tracking
//   - dispatch.go: one goroutine per request, callbacks posted to the loop
//   - timeline.go: generic list-and-decode over api/<collection>/
//   - client.go: the operation catalogue
//
// # Client Usage
//
//	l := loop.New()
//	client, err := babybuddy.NewClient(cfg, l, babybuddy.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//
//	client.ListChildren(babybuddy.Callbacks[[]babybuddy.Child]{
//		OnResponse: func(children []babybuddy.Child) { ... },
//		OnError:    func(err error) { ... },
//	})
//
//	// Somewhere on the caller's goroutine:
//	<-l.Ready()
//	l.RunPending()
//
// # Delivery Guarantees
//
// Each call spawns exactly one goroutine and performs exactly one HTTP
// exchange. The response body is decoded on that goroutine. Afterwards
// exactly one of Callback.Response or Callback.Error is posted to the
// Poster, so callbacks only ever run where the caller drains its loop. A
// panic during the exchange or while decoding is recovered and reported as
// an error. There are no retries, no timeouts and no cancellation: a hung
// connection leaves its callback pending.
//
// # Error Handling
//
//   - *TransportError: the server could not be reached or the body could
//     not be read
//   - *StatusError: a status outside 200-299; Message is the reason phrase
//   - *DecodeError: the body was not the expected JSON, or a date in it was
//     malformed (the chain then also contains *DateFormatError)
//   - *EncodingError: the request payload could not be serialized
//
// Use errors.As to tell them apart. No partial results accompany an error:
// one bad record fails the whole list.
//
// # Server Clock
//
// Every response's Date header updates the offset between device time and
// server time, less 100ms for transit. Headers that are missing or do not
// parse leave the offset alone. Timestamps the client writes ("now" for new
// timers and changes) and Timer.ComputeCurrentServerEndTime use this
// estimate.
//
// # Timeline Records
//
// TimeEntry holds the common fields and its Type names the collection the
// record came from. ChangeEntry and FeedingEntry embed it and add their own
// fields. All three satisfy TimelineEntry, so removal and update work the
// same for every kind; DecodeTimelineEntry picks the decoder by Type.
//
// Feeding method and type strings that match no known value decode as unset
// rather than failing.
package babybuddy
