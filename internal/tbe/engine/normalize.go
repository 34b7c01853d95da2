package engine

import "strings"

// NormalizeStandard 标准名称归一化, "iso-9001" / "ISO9001" 均归一为 "ISO 9001"
func NormalizeStandard(s string) string {
	n := strings.ToUpper(strings.TrimSpace(s))
	n = strings.ReplaceAll(n, "-", " ")
	n = strings.ReplaceAll(n, "_", " ")
	if strings.HasPrefix(n, "ISO") && !strings.HasPrefix(n, "ISO ") && len(n) > 3 {
		n = "ISO " + strings.TrimSpace(n[3:])
	}
	return n
}

// NormalizeStandards 批量归一化并去重, 保持首次出现顺序
func NormalizeStandards(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		n := NormalizeStandard(item)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// NormalizeCerts 认证名称归一化去重, 不做 ISO 前缀修正
func NormalizeCerts(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		n := strings.ToUpper(strings.TrimSpace(item))
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// matchesAny 判断 required 是否被 provided 覆盖, 允许子串匹配
// 如 provided 中的 "ISO 9001:2015" 可满足 required "ISO 9001"
func matchesAny(required string, provided []string) bool {
	for _, p := range provided {
		if p == required || strings.Contains(p, required) {
			return true
		}
	}
	return false
}
