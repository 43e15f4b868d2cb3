// package repositories provides the persistence layer for the library
// schema.
//
// Each repository implements insert-if-absent upserts for one entity
// type: a row is inserted only when its primary key is not already
// present, and existing rows are never overwritten. The Loader applies a
// whole extraction batch in foreign-key dependency order.
package repositories
