package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func runCmd(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--sqlite", dbPath, "--operator", "tester"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestCLI_CreateShowCopy(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "term.db")

	out, err := runCmd(t, dbPath, "create", "--year", "2567", "--semester", "1")
	if err != nil {
		t.Fatalf("create 失败: %v", err)
	}
	if !strings.Contains(out, "1-2567 已创建") {
		t.Errorf("期望输出创建结果，实际: %s", out)
	}

	out, err = runCmd(t, dbPath, "show", "1-2567")
	if err != nil {
		t.Fatalf("show 失败: %v", err)
	}
	if !strings.Contains(out, "DRAFT") || !strings.Contains(out, "每日 8 节") {
		t.Errorf("期望输出学期详情，实际: %s", out)
	}

	out, err = runCmd(t, dbPath, "copy", "--from", "1-2567", "--to", "2-2567")
	if err != nil {
		t.Fatalf("copy 失败: %v", err)
	}
	if !strings.Contains(out, "1-2567 → 2-2567 复制完成") {
		t.Errorf("期望输出复制汇总，实际: %s", out)
	}
	if !strings.Contains(out, "共   40") {
		t.Errorf("期望复制 40 个时段，实际: %s", out)
	}

	out, err = runCmd(t, dbPath, "show", "--year", "2567", "--semester", "2")
	if err != nil {
		t.Fatalf("show --year 失败: %v", err)
	}
	if !strings.Contains(out, "2-2567 (2567 学年第 2 学期)") {
		t.Errorf("期望按学年学期查到目标学期，实际: %s", out)
	}

	out, err = runCmd(t, dbPath, "show")
	if err != nil {
		t.Fatalf("show 失败: %v", err)
	}
	if !strings.Contains(out, "1-2567") || !strings.Contains(out, "2-2567") {
		t.Errorf("期望列出两个学期，实际: %s", out)
	}
}

func TestCLI_CopyRejectsLockWithoutAssign(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "term.db")
	if _, err := runCmd(t, dbPath, "create", "--year", "2567", "--semester", "1"); err != nil {
		t.Fatalf("create 失败: %v", err)
	}
	if _, err := runCmd(t, dbPath, "copy", "--from", "1-2567", "--to", "2-2567", "--lock"); err == nil {
		t.Error("期望 --lock 未配合 --assign 时报错")
	}
}

func TestCLI_StatusPublishBlocked(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "term.db")
	if _, err := runCmd(t, dbPath, "create", "--year", "2567", "--semester", "1"); err != nil {
		t.Fatalf("create 失败: %v", err)
	}

	// 仅有时段时完整度为 30%，无班级即 ready，可直接发布
	out, err := runCmd(t, dbPath, "status", "1-2567", "published")
	if err != nil {
		t.Fatalf("发布失败: %v, 输出: %s", err, out)
	}
	if !strings.Contains(out, "PUBLISHED") {
		t.Errorf("期望状态为 PUBLISHED，实际: %s", out)
	}

	if _, err := runCmd(t, dbPath, "status", "1-2567", "ARCHIVED"); err == nil {
		t.Error("期望 PUBLISHED → ARCHIVED 被拒绝")
	}
}

func TestCLI_MigrateRejectsSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "term.db")
	if _, err := runCmd(t, dbPath, "migrate", "up"); err == nil {
		t.Error("期望 SQLite 模式下 migrate 报错")
	}
}
