package utils

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"
)

// Leveled logging that masks personal finance data (amounts, emails) in
// production output. Ledger contents must never land in plain text logs.

var (
	isProduction = os.Getenv("GIN_MODE") == "release" ||
		os.Getenv("ENVIRONMENT") == "production"

	logLevel = currentLogLevel()
)

const (
	levelDebug = iota
	levelInfo
	levelWarn
	levelError
)

func currentLogLevel() int {
	switch strings.ToUpper(os.Getenv("LOG_LEVEL")) {
	case "DEBUG":
		return levelDebug
	case "WARN", "WARNING":
		return levelWarn
	case "ERROR":
		return levelError
	default:
		return levelInfo
	}
}

var (
	emailRegex  = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	amountRegex = regexp.MustCompile(`\b\d{2,}([.,]\d{1,2})?\b`)
)

func mask(message string) string {
	if !isProduction {
		return message
	}
	message = emailRegex.ReplaceAllString(message, "***@***")
	return amountRegex.ReplaceAllString(message, "***")
}

func Debug(format string, args ...interface{}) {
	if logLevel <= levelDebug {
		log.Printf("🔍 %s", mask(fmt.Sprintf(format, args...)))
	}
}

func Info(format string, args ...interface{}) {
	if logLevel <= levelInfo {
		log.Printf("ℹ️  %s", mask(fmt.Sprintf(format, args...)))
	}
}

func Warn(format string, args ...interface{}) {
	if logLevel <= levelWarn {
		log.Printf("⚠️  %s", mask(fmt.Sprintf(format, args...)))
	}
}

func Error(format string, args ...interface{}) {
	if logLevel <= levelError {
		log.Printf("❌ %s", mask(fmt.Sprintf(format, args...)))
	}
}
