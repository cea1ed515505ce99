// Package web embeds the result page served by the monitoring server.
package web

import (
	"embed"
	"io/fs"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
)

const devEnv = "INTERSIM_WEB_DEV"

//go:embed dist
var dist embed.FS

// GetAssets returns the files of the result page. If INTERSIM_WEB_DEV is
// true, the files are read from the source tree, so that the page can be
// edited without rebuilding.
func GetAssets() http.FileSystem {
	if devMode() {
		dir := sourceDir()
		log.Printf("serving the result page from %s", dir)

		return http.Dir(dir)
	}

	sub, err := fs.Sub(dist, "dist")
	if err != nil {
		log.Panic(err)
	}

	return http.FS(sub)
}

func sourceDir() string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		log.Panic("cannot locate the result page sources")
	}

	return filepath.Join(filepath.Dir(file), "dist")
}

func devMode() bool {
	dev, err := strconv.ParseBool(os.Getenv(devEnv))

	return err == nil && dev
}
