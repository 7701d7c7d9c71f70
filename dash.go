package dash

import (
	"embed"
	"io/fs"
	"time"

	"github.com/juho05/log"
)

//go:embed ui/html
var htmlFS embed.FS

//go:embed ui/static
var staticFS embed.FS

//go:embed migrations/sqlite
var sqliteMigrationsFS embed.FS

//go:embed migrations/postgres
var postgresMigrationsFS embed.FS

var (
	HTMLFS               fs.FS
	StaticFS             fs.FS
	SQLiteMigrationsFS   fs.FS
	PostgresMigrationsFS fs.FS

	StartTime = time.Now()
)

func init() {
	HTMLFS = mustSub(htmlFS, "ui/html")
	StaticFS = mustSub(staticFS, "ui/static")
	SQLiteMigrationsFS = mustSub(sqliteMigrationsFS, "migrations/sqlite")
	PostgresMigrationsFS = mustSub(postgresMigrationsFS, "migrations/postgres")
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		log.Fatal(err)
	}
	return sub
}
