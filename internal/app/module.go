package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/fatflowers/fakepay/internal/app/api/server"
	"github.com/fatflowers/fakepay/internal/app/service/payment"
	settlementlog "github.com/fatflowers/fakepay/internal/app/service/settlement_log"
	"github.com/fatflowers/fakepay/internal/app/service/statistics"
	"github.com/fatflowers/fakepay/internal/platform/db"
	"github.com/fatflowers/fakepay/internal/platform/sns"
	"github.com/fatflowers/fakepay/pkg/config"
	"github.com/fatflowers/fakepay/pkg/logger"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	sns.Module,
	settlementlog.Module,
	statistics.Module,
	payment.Module,
	server.Module,
)
