package journal

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
)

const measurementPrefix = "Steps per Revolution: "

type recordClient interface {
	Record(ctx context.Context, moduleID string, steps int64) (*Measurement, error)
}

var _ recordClient = &Client{}

// Recorder is an io.Writer placed on a module's console output. Every complete
// "Steps per Revolution: N" line is recorded. Failures are logged and never returned to the writer.
type Recorder struct {
	ctx      context.Context
	client   recordClient
	moduleID string
	logger   *zap.Logger

	mtx sync.Mutex
	buf []byte
}

func NewRecorder(ctx context.Context, client recordClient, moduleID string, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{
		ctx:      ctx,
		client:   client,
		moduleID: moduleID,
		logger:   logger.With(zap.String("module_id", moduleID)),
	}
}

func (r *Recorder) Write(p []byte) (int, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.buf = append(r.buf, p...)
	for {
		i := bytes.IndexByte(r.buf, '\n')
		if i < 0 {
			break
		}
		line := string(r.buf[:i])
		r.buf = r.buf[i+1:]
		r.handleLine(strings.TrimSuffix(line, "\r"))
	}

	return len(p), nil
}

func (r *Recorder) handleLine(line string) {
	rest, ok := strings.CutPrefix(line, measurementPrefix)
	if !ok {
		return
	}

	steps, err := strconv.ParseInt(strings.TrimSpace(rest), 10, 64)
	if err != nil {
		r.logger.Warn("ignoring malformed measurement", zap.String("line", line), zap.Error(err))
		return
	}

	m, err := r.client.Record(r.ctx, r.moduleID, steps)
	if err != nil {
		r.logger.Error("error recording measurement", zap.Int64("steps", steps), zap.Error(err))
		return
	}

	r.logger.Info("recorded measurement", zap.String("id", m.GetID()), zap.Int64("steps", steps))
}
