package utils

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

func LookupEnvStr(name string, default_value string) string {
	v, ok := os.LookupEnv(name)
	if ok && v != "" {
		return v
	} else {
		return default_value
	}
}

func LookupEnvUint64(name string, default_value uint64) uint64 {
	v, ok := os.LookupEnv(name)
	if ok && v != "" {
		vi, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			panic(fmt.Sprintf("parse %s with value %s to uint64 error: %v", name, v, err))
		}

		return vi
	}

	return default_value
}

func LookupEnvBool(name string, default_value bool) bool {
	v, ok := os.LookupEnv(name)
	if ok && v != "" {
		return v == "true"
	}

	return default_value
}

func LookupEnvDuration(name string, default_value time.Duration) time.Duration {
	v, ok := os.LookupEnv(name)
	if ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(fmt.Sprintf("parse %s with value %s to duration error: %v", name, v, err))
		}

		return d
	}

	return default_value
}
