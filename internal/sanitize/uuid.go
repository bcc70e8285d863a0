package sanitize

// uuidv4Expr is the SQLite expression substituted for T-SQL's newid():
// random hex blobs stitched together with the UUID v4 version/variant
// nibbles forced into place.
const uuidv4Expr = `(lower(hex(randomblob(4)) || '-' || hex(randomblob(2)) || '-4' || substr(hex(randomblob(2)),2) || '-' || substr('89ab', abs(random()) % 4 + 1, 1) || substr(hex(randomblob(2)),2) || '-' || hex(randomblob(6))))`
