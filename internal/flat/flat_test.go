package flat

import (
	"time"

	"p4g/internal/model"
)

func testConfig() model.Config {
	cfg := model.DefaultConfig()
	cfg.Location = time.UTC
	return cfg
}

func newTestAssembler(cfg model.Config) *Assembler {
	return NewAssembler(NewParser(cfg), NewFormatter(cfg))
}
