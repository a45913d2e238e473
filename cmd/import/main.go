package main

import (
	"context"
	"flag"
	"log"

	"github.com/joho/godotenv"
	"github.com/user/yamdb/internal/config"
	"github.com/user/yamdb/internal/repository"
	"github.com/user/yamdb/internal/service"
)

// 从 CSV 数据集导入初始数据，用法：
//
//	go run ./cmd/import -dir static/data
func main() {
	dir := flag.String("dir", "static/data", "CSV 数据目录")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("未找到 .env 文件，使用系统环境变量")
	}

	cfg := config.Load()

	db, err := repository.InitDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}
	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	importer := service.NewImportService(db)
	if err := importer.Run(context.Background(), *dir); err != nil {
		log.Fatalf("导入失败: %v", err)
	}

	log.Println("导入完成")
}
