// Package loader fetches table instances from the table store and expands
// structure rows into their child tables, producing one flat row set per
// requested path. A Batch memoizes results so each path is fetched once
// per execution batch.
package loader
