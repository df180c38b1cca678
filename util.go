package genosnp

// WhichSQLiteDriver names the database/sql driver OpenVariantIndex uses.
func WhichSQLiteDriver() string {
	return whichSQLiteDriver
}
