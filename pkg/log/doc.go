/*
Package log provides CalvinDB's structured logging on top of zerolog: a
package-level Logger initialized once via Init, and WithComponent/
WithNodeID/WithTxnID helpers for building context loggers that the
scheduler, executor, sequencer, and API server use to tag their log
lines.

	log.Init(log.Config{Level: log.InfoLevel, JSONOutput: true})
	schedLog := log.WithComponent("scheduler")
	schedLog.Info().Str("txn", txn.UUID).Msg("transaction scheduled")

# See Also

  - Zerolog documentation: https://github.com/rs/zerolog
*/
package log
