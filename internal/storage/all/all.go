// Package all registers every storage backend. Import for side effects:
//
//	import _ "json2csv/internal/storage/all"
package all

import (
	_ "json2csv/internal/storage/mssql"
	_ "json2csv/internal/storage/postgres"
	_ "json2csv/internal/storage/sqlite"
)
