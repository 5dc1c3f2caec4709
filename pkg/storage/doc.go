/*
Package storage provides the embedded KV store the executor reads and
writes through: a single bbolt-backed Store keyed by record storage_key,
holding the encoded RecordStorage value.

This is a much narrower surface than a general entity store — one bucket,
two operations (Get/Put) plus Close — because the core's executor owns
all access and never needs secondary indexes, listing, or deletion.

# See Also

  - pkg/executor for the read-modify-write cycle that uses Store
  - pkg/record for the storage_key encoding
  - BoltDB documentation: https://github.com/etcd-io/bbolt
*/
package storage
