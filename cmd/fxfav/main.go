// Command fxfav は通貨換算チャットボットの永続化層と管理APIを提供する。
//
// 使い方:
//
//	fxfav [serve|migrate|healthcheck]
package main

import (
	"fmt"
	"os"

	"github.com/hitoshi/fxfav/internal/app"
)

func main() {
	if err := app.Run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "fxfav: %v\n", err)
		os.Exit(1)
	}
}
