// Package config loads run settings from an optional JSON or YAML file.
package config

import (
	"runtime"

	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/logx"
)

type Config struct {
	Width    int      `json:",default=4000"`
	Height   int      `json:",default=4000"`
	Threads  int      `json:",optional"` // 0 selects runtime.NumCPU
	OutDir   string   `json:",default=out"`
	Filename string   `json:",default=julia"`
	Pgm      bool     `json:",optional"`
	NoVis    bool     `json:",optional"`
	Gops     bool     `json:",optional"`
	Reports  []string `json:",optional"` // Summary targets, see report.Open
	Log      logx.LogConf
}

// Load reads path, or fills in defaults when path is empty
func Load(path string) (Config, error) {
	var c Config
	var err error
	if path == "" {
		err = conf.FillDefault(&c)
	} else {
		err = conf.Load(path, &c)
	}
	if err != nil {
		return Config{}, err
	}
	if c.Threads == 0 {
		c.Threads = runtime.NumCPU()
	}
	return c, nil
}
