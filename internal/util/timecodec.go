package util

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * 60
	secondsPerDay    = 24 * 60 * 60

	// average month length in days over a four year cycle
	daysPerMonth = float64(365*4+1) / 48

	// MaxSeconds 是解析结果的上限，超过后整数秒不再能用 float64 精确表示
	MaxSeconds = float64(1 << 53)
)

var durationPattern = regexp.MustCompile(`^P(?:(\d+)Y)?(?:(\d+)M)?(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?)?$`)

// DurationToSeconds 解析 P[nY][nM][nD][T[nH][nM][n[.f]S]] 形式的时长，无法解析时返回 0
func DurationToSeconds(text string) float64 {
	m := durationPattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return 0
	}

	seconds := math.Round(component(m[6]))
	seconds += component(m[5]) * secondsPerMinute
	seconds += component(m[4]) * secondsPerHour
	seconds += component(m[3]) * secondsPerDay
	seconds += component(m[2]) * daysPerMonth * secondsPerDay
	seconds += component(m[1]) * 365 * secondsPerDay

	return math.Min(seconds, MaxSeconds)
}

// TimeSpanToSeconds 解析 HH:MM:SS[.f] 形式的时间段，格式错误的片段按 0 处理
func TimeSpanToSeconds(text string) float64 {
	parts := strings.Split(strings.TrimSpace(text), ":")
	segment := func(i int) float64 {
		if i >= len(parts) {
			return 0
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil || v <= 0 || math.IsInf(v, 0) {
			return 0
		}
		return v
	}

	seconds := math.Round(segment(2))
	seconds += math.Trunc(segment(1)) * secondsPerMinute
	seconds += math.Trunc(segment(0)) * secondsPerHour

	return math.Min(seconds, MaxSeconds)
}

// SecondsToDuration formats seconds as PT#H#M#S.
func SecondsToDuration(seconds float64) string {
	if seconds <= 0 || math.IsNaN(seconds) {
		return "PT0S"
	}
	h, m, s := splitSeconds(seconds)
	return fmt.Sprintf("PT%dH%dM%sS", h, m, strconv.FormatFloat(s, 'f', -1, 64))
}

// SecondsToTimeSpan formats seconds as HHHH:MM:SS.
func SecondsToTimeSpan(seconds float64) string {
	if seconds <= 0 || math.IsNaN(seconds) {
		return "0000:00:00"
	}
	h, m, s := splitSeconds(seconds)
	whole := int64(s)
	if cents := int64(math.Round((s - float64(whole)) * 100)); cents > 0 && cents < 100 {
		return fmt.Sprintf("%04d:%02d:%02d.%02d", h, m, whole, cents)
	}
	return fmt.Sprintf("%04d:%02d:%02d", h, m, whole)
}

func splitSeconds(seconds float64) (int64, int64, float64) {
	seconds = math.Round(math.Min(seconds, MaxSeconds)*100) / 100
	whole := int64(seconds)
	h := whole / secondsPerHour
	m := (whole % secondsPerHour) / secondsPerMinute
	s := seconds - float64(h*secondsPerHour+m*secondsPerMinute)
	return h, m, math.Round(s*100) / 100
}

// component 解析一个时长分量，在 float64 中计算以免大数溢出成负值
func component(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 || math.IsInf(v, 0) {
		return 0
	}
	return v
}
