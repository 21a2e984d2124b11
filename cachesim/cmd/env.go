package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

const envPrefix = "CACHESIM_"

var loadEnvOnce sync.Once

// loadEnv reads the .env file in the working directory, if there is one.
// Variables already set in the environment win over the file.
func loadEnv() {
	loadEnvOnce.Do(func() {
		err := godotenv.Load()
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "cannot load .env: %v\n", err)
		}
	})
}

func envString(name, def string) string {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok {
		return def
	}

	return v
}

func envInt(name string, def int) int {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ignoring %s%s=%q: %v\n", envPrefix, name, v, err)
		return def
	}

	return n
}

func envUint64(name string, def uint64) uint64 {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok {
		return def
	}

	n, err := strconv.ParseUint(v, 0, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ignoring %s%s=%q: %v\n", envPrefix, name, v, err)
		return def
	}

	return n
}

func envBool(name string, def bool) bool {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok {
		return def
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ignoring %s%s=%q: %v\n", envPrefix, name, v, err)
		return def
	}

	return b
}
