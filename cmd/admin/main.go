package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/MdFayaz7/portfolio1/internal/auth"
	"github.com/MdFayaz7/portfolio1/internal/config"
	"github.com/MdFayaz7/portfolio1/internal/database"
)

func main() {
	var (
		email    = flag.String("email", "", "管理员邮箱（必填）")
		password = flag.String("password", "", "管理员密码（可选，留空则随机生成）")
		dbURI    = flag.String("db-uri", "", "数据库连接串（可选，默认读 DATABASE_URI）")
	)
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("load .env: %v", err)
	}

	addr := strings.TrimSpace(*email)
	if addr == "" {
		log.Fatal("missing required flag: --email")
	}

	cfg := config.MustLoad()
	if uri := strings.TrimSpace(*dbURI); uri != "" {
		cfg.Database.URI = uri
	}

	pass := *password
	generated := pass == ""
	if generated {
		var err error
		pass, err = generateRandomPassword(18)
		if err != nil {
			log.Fatalf("generate password: %v", err)
		}
	}
	if len(pass) < 6 || len(pass) > 72 {
		log.Fatal("password must be between 6 and 72 characters")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.Open(ctx, cfg.Database, nil)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	defer db.Close(context.Background())

	tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret)
	if err != nil {
		log.Fatalf("init token service: %v", err)
	}
	user, created, err := auth.NewService(db.Users, tokens, cfg.Auth.BcryptCost).Provision(ctx, addr, pass)
	if err != nil {
		log.Fatalf("provision admin: %v", err)
	}

	if created {
		fmt.Printf("已创建管理员账号：\n")
	} else {
		fmt.Printf("管理员账号已存在，密码已重置：\n")
	}
	fmt.Printf("邮箱: %s\n", user.Email)
	if generated {
		fmt.Printf("密码: %s\n", pass)
		fmt.Printf("提示：该密码仅显示一次，请妥善保存。\n")
	}
}

func generateRandomPassword(bytesLen int) (string, error) {
	buf := make([]byte, bytesLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
