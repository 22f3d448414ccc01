package main

import (
	"fmt"
	"os"

	devenv "outage-scraper/dev/env"
	configlibsql "outage-scraper/lib/configutil/libsql"
	outagedb "outage-scraper/services/outage/db"
)

const (
	devDatabase    = "<dev_state>/outages.db"
	devSavedPages  = "<dev_state>/pages"
	devLocalConfig = "config.local.json5"
)

func CreateOutageDB() error {
	path, err := devenv.ResolvePath(devDatabase)
	if err != nil {
		return err
	}
	_, err = os.Stat(path)
	if err == nil {
		fmt.Println("database already created at", path)
		return nil
	}

	fmt.Println("creating database at", path)
	db, err := configlibsql.Struct{File: devDatabase}.OpenDB(outagedb.Schema)
	if err != nil {
		return err
	}
	return db.Close()
}

// WriteLocalConfig points a local run of outage-scraper at the dev
// database, an existing config.local.json5 is left alone.
func WriteLocalConfig() error {
	_, err := os.Stat(devLocalConfig)
	if err == nil {
		fmt.Println(devLocalConfig, "already exists, not overwriting it")
		return nil
	}

	contents := fmt.Sprintf(`{
	// written by "go run ./dev"
	"database": { "file": %q },
	"scraper": { "save_dir": %q },
}
`, devDatabase, devSavedPages)

	fmt.Println("writing", devLocalConfig)
	return os.WriteFile(devLocalConfig, []byte(contents), 0600)
}
