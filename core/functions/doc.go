/*
Package functions implements SQL hashing functions for SQLite hosts.

For every digest algorithm ALG known to package digest the registry
provides up to four functions:

	ALG(arg...)             scalar, returns the digest as a BLOB
	ALG_hex(arg...)         scalar, returns the digest as uppercase hex TEXT
	ALG_concat(arg...)      aggregate and window, BLOB
	ALG_concat_hex(arg...)  aggregate and window, hex TEXT

All functions are variadic and deterministic. Arguments are hashed in
order as if concatenated. Text is hashed as its UTF-8 bytes, blobs as-is,
NULLs are skipped. Integer and real arguments are rejected with
*errors.TypeError; calling with no arguments fails with *errors.ArityError.

# NULL Handling

Results follow the three phases of an Accumulator:

	no input            NULL
	only NULL input     NULL (empty string for the _hex variants)
	any non-NULL input  the digest, even if every value was empty

	SELECT md5(NULL);            -- NULL
	SELECT md5_hex(NULL);        -- ''
	SELECT md5_hex('');          -- 'D41D8CD98F00B204E9800998ECF8427E'

# Aggregates and Windows

An aggregate hashes the arguments of every row in the order the engine
steps them. SQL leaves row order inside a group unspecified, so a stable
result needs an explicit order:

	SELECT sha256_concat(v) FROM (SELECT v FROM t ORDER BY v);
	SELECT sha256_concat_hex(v) OVER (ORDER BY v) FROM t;

Used as a window function the digest grows with the frame. Rows can never
be removed from a digest, so frames must start at UNBOUNDED PRECEDING;
anything else (e.g. ROWS 1 PRECEDING) fails with *errors.UnsupportedError.

# Hosts

The package has no dependency on a SQL driver. Registry.Install hands each
function to a Host, which adapts it to a concrete engine. See package
core/sqlite for the modernc.org/sqlite and mattn/go-sqlite3 bindings.
*/
package functions
