// 手动检查 LMS 同步接口的脚本
//
// 按配置中的 lms.base_url 拼出某个 attempt 的 fetch/commit 地址，拉取已有记录，
// 加上 -commit 时把拉到的状态原样提交一次，检查 LMS 是否返回 "store complete"。
//
// 用法: go run scripts/lms_probe.go -attempt 42 [-commit]

package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"scorm_rte/internal/cmi"
	"scorm_rte/internal/config"
	"scorm_rte/internal/lms"
	"scorm_rte/internal/model"
	"scorm_rte/internal/service"
	"scorm_rte/pkg/logger"
)

func main() {
	configDir := flag.String("config", "configs", "配置文件所在目录")
	attemptID := flag.String("attempt", "", "attempt id")
	version := flag.String("version", "2004", "SCORM 版本: 1.2 或 2004")
	commit := flag.Bool("commit", false, "把拉取到的状态提交回 LMS")
	flag.Parse()

	if *attemptID == "" {
		log.Fatal("必须指定 -attempt")
	}

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	endpoints := service.Endpoints(cfg.LMS.BaseURL, *attemptID)
	client := lms.NewClient(endpoints, &http.Client{Timeout: cfg.LMS.RequestTimeout})
	ctx := context.Background()

	payload, err := client.Fetch(ctx)
	if err != nil {
		log.Fatalf("拉取失败: %s", lms.Diagnostic(err))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		log.Fatalf("输出失败: %v", err)
	}

	if !*commit {
		return
	}

	m := cmi.New(model.Version(*version), cmi.Options{})
	m.InitFrom(payload)
	body, _ := lms.BuildCommit(m.Record())
	if err := client.Commit(ctx, body); err != nil {
		log.Fatalf("提交失败: %s", lms.Diagnostic(err))
	}
	log.Println("提交成功")
}
