// bundlefx/bundlefx.go
package bundlefx

import (
	"github.com/joeydtaylor/steeze-protocol/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-protocol/pkg/middleware/logger"
	"github.com/joeydtaylor/steeze-protocol/pkg/middleware/metrics"
	"go.uber.org/fx"
)

// Module provides *zap.Logger, the access-log and auth middleware, and the
// `name:"metrics"` scrape handler.
var Module = fx.Options(
	logger.Module,
	auth.Module,
	metrics.Module,
)
