package container

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/pennyflow/backend/config"
	"github.com/pennyflow/backend/internal/auth"
	"github.com/pennyflow/backend/pkg/helpers"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client

	tokenIssuer *auth.TokenIssuer
	otpKit      *auth.OTPKit

	rabbitPub *helpers.RabbitPublisher
)

func SetConfig(c *config.Config) { cfg = c }
func GetConfig() *config.Config  { return cfg }
func SetLogger(l *logrus.Logger) { logger = l }
func GetLogger() *logrus.Logger  { return logger }
func SetPGPool(p *pgxpool.Pool)  { pgPool = p }
func GetPGPool() *pgxpool.Pool   { return pgPool }
func SetRedis(r *redis.Client)   { redisClient = r }
func GetRedis() *redis.Client    { return redisClient }

func SetTokenIssuer(t *auth.TokenIssuer) { tokenIssuer = t }
func GetTokenIssuer() *auth.TokenIssuer  { return tokenIssuer }
func SetOTPKit(k *auth.OTPKit)           { otpKit = k }
func GetOTPKit() *auth.OTPKit            { return otpKit }

func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }
