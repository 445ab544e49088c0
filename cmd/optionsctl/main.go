// optionsctl 离线估值工具：读取 CSV 合约文件或 YAML 组合文件，输出估值、风险与组合统计
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
