package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr        string
	Port              string
	DatabaseDriver    string
	DatabasePath      string
	DatabaseDSN       string
	SessionSecret     string
	GinMode           string
	UploadDir         string
	UploadURLPath     string
	PostsPerPage      int
	SuperRootUserName string
	SuperRootPassword string
}

func defaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_PATH", "blogicum.db")
	v.SetDefault("DATABASE_DSN", "")
	v.SetDefault("SESSION_SECRET", "")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("UPLOAD_DIR", "web/static/uploads")
	v.SetDefault("UPLOAD_URL_PATH", "/media")
	v.SetDefault("POSTS_PER_PAGE", 10)
	v.SetDefault("SUPER_ROOT_USER_NAME", "")
	v.SetDefault("SUPER_ROOT_PASSWORD", "")
	v.SetDefault("LISTEN_ADDR", "")
}

// Load 读取 .env（若存在）与环境变量，并为缺失项提供默认值。
func Load() AppConfig {
	if err := godotenv.Load(); err == nil {
		log.Println("config: loaded .env")
	}
	return FromViper(NewViper())
}

// NewViper returns a viper instance bound to the process environment.
func NewViper() *viper.Viper {
	v := viper.New()
	defaults(v)
	v.AutomaticEnv()
	return v
}

// FromViper resolves an AppConfig from an already populated viper instance.
func FromViper(v *viper.Viper) AppConfig {
	trim := func(key string) string {
		return strings.TrimSpace(v.GetString(key))
	}

	port := trim("PORT")
	if port == "" {
		port = "8080"
	}

	listenAddr := trim("LISTEN_ADDR")
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	perPage := v.GetInt("POSTS_PER_PAGE")
	if perPage <= 0 {
		perPage = 10
	}

	return AppConfig{
		ListenAddr:        listenAddr,
		Port:              port,
		DatabaseDriver:    strings.ToLower(trim("DATABASE_DRIVER")),
		DatabasePath:      trim("DATABASE_PATH"),
		DatabaseDSN:       trim("DATABASE_DSN"),
		SessionSecret:     trim("SESSION_SECRET"),
		GinMode:           trim("GIN_MODE"),
		UploadDir:         trim("UPLOAD_DIR"),
		UploadURLPath:     trim("UPLOAD_URL_PATH"),
		PostsPerPage:      perPage,
		SuperRootUserName: trim("SUPER_ROOT_USER_NAME"),
		SuperRootPassword: trim("SUPER_ROOT_PASSWORD"),
	}
}

const minSessionSecretLength = 32

// 仓库示例与旧版本使用过的密钥，正式环境一律拒绝
var knownDevSecrets = map[string]bool{
	"blogicum-dev-secret": true,
	"change-me":           true,
	"secret":              true,
}

// ErrWeakSessionSecret 表示 release 模式下会话密钥缺失或强度不足。
var ErrWeakSessionSecret = errors.New("SESSION_SECRET must be set to at least 32 random characters in release mode")

// EnsureSessionSecret 校验会话签名密钥。
// release 模式下密钥为空、过短或为已知的开发密钥时返回 ErrWeakSessionSecret；
// 其他模式下缺失密钥时生成一个随机密钥，重启后已有会话随之失效。
func (c *AppConfig) EnsureSessionSecret() error {
	secret := c.SessionSecret
	weak := len(secret) < minSessionSecretLength || knownDevSecrets[secret]

	if c.GinMode == "release" || c.GinMode == "" {
		if weak {
			return ErrWeakSessionSecret
		}
		return nil
	}

	if secret != "" && !knownDevSecrets[secret] {
		return nil
	}

	buf := make([]byte, minSessionSecretLength)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Errorf("generate session secret: %w", err)
	}
	c.SessionSecret = hex.EncodeToString(buf)
	log.Printf("[WARN] SESSION_SECRET is not set, using a random secret for %s mode; sessions will not survive a restart", c.GinMode)
	return nil
}
