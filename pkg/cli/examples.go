package cli

import (
	"fmt"
	"io"
)

const examplesText = `Quick start:

  $ duckgs --query "SELECT 42"

Silent mode:

  $ duckgs --query "SELECT 42" --silent

All queries are cached:

  $ duckgs --query "FROM read_parquet('gs://bucket/**/*.parquet') LIMIT 1"
  $ duckgs --query "FROM read_parquet('gs://bucket/**/*.parquet') LIMIT 1"

Simplify queries using placeholders:

  $ duckgs --bucket "gs://bucket/**/*.parquet" \
           --query "SELECT * FROM read_parquet('{bucket}')"

This is equivalent to:

  $ duckgs --query "FROM read_parquet('{bucket}') LIMIT 1" \
           --kwargs '{"bucket": "gs://bucket/**/*.parquet"}'

More complex placeholders work too:

  $ duckgs --bucket "gs://bucket/**/*.parquet" \
           --query "SELECT {cols} FROM read_parquet('{bucket}')" \
           --kwargs '{"cols": "bidfloor, hour"}'

Or use env vars:

  $ DUCKGS_BUCKET=gs://bucket/**/*.parquet duckgs --query "SELECT 42 FROM read_parquet('{bucket}')"

From a file (equivalent to --query but reading a file):

  $ echo "SELECT * FROM read_parquet('gs://bucket/*.parquet') LIMIT 1" > /tmp/query.sql
  $ duckgs --query-file /tmp/query.sql

Modify the output (the result is bound as df):

  $ duckgs --query-file /tmp/query.sql --eval "df.t()"
  $ duckgs --query-file /tmp/query.sql --eval "df[['a']]"
  $ duckgs --query-file /tmp/query.sql --eval "df.to_csv()"

Save the output to a file in your favourite format:

  $ duckgs --query-file /tmp/query.sql --eval "df.to_csv()" -s > /tmp/out.csv
  $ cat /tmp/out.csv
`

func printExamples(w io.Writer) {
	fmt.Fprint(w, examplesText)
}
