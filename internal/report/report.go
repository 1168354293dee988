// Package report renders the end-of-day summary as Telegram-flavored HTML.
package report

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"taskflow/internal/model"
	"taskflow/internal/stats"
)

// Daily builds the daily report for one user's task snapshot.
func Daily(tasks []model.Task, now time.Time) string {
	summary := stats.SummarizeDay(tasks, now)

	var builder strings.Builder
	builder.WriteString("📋 <b>Daily Report</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n\n", now.Format("02.01.2006")))

	builder.WriteString(fmt.Sprintf("✅ <b>Completed today</b> — %d\n", summary.CompletedTasks))
	if summary.CompletedTasks == 0 {
		builder.WriteString("— nothing completed yet\n")
	} else {
		for _, task := range summary.Tasks {
			builder.WriteString(formatCompleted(task))
		}
		accuracy := summary.TimeAccuracy()
		builder.WriteString(fmt.Sprintf("\n⏱ %d min estimated · %d min actual · %s\n",
			summary.TotalEstimatedMinutes, summary.ActualMinutes, stats.ClassifyAccuracy(accuracy)))
		builder.WriteString(fmt.Sprintf("🎯 Productivity score: %d\n", summary.ProductivityScore()))
	}

	pending := summary.IncompleteTasks
	sort.SliceStable(pending, func(i, j int) bool {
		switch {
		case pending[i].ScheduledStart == nil && pending[j].ScheduledStart == nil:
			return pending[i].CreatedAt.After(pending[j].CreatedAt)
		case pending[i].ScheduledStart == nil:
			return false
		case pending[j].ScheduledStart == nil:
			return true
		default:
			return pending[i].ScheduledStart.Before(*pending[j].ScheduledStart)
		}
	})

	builder.WriteString("\n🔥 <b>Open tasks</b>\n")
	if len(pending) == 0 {
		builder.WriteString("— no open tasks\n")
	} else {
		for _, task := range pending {
			builder.WriteString(formatPending(task, now))
		}
	}

	return strings.TrimSpace(builder.String())
}

func formatCompleted(task model.Task) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("✔️ %s", html.EscapeString(strings.TrimSpace(task.Title))))
	if task.Category != "" {
		sb.WriteString(fmt.Sprintf(" <i>(%s)</i>", html.EscapeString(task.Category)))
	}
	if task.TimeSpent > 0 {
		sb.WriteString(fmt.Sprintf(" · %d min", task.TimeSpent))
	}
	sb.WriteByte('\n')
	return sb.String()
}

func formatPending(task model.Task, now time.Time) string {
	var sb strings.Builder

	icon := "🟢"
	if task.Scheduled() {
		end := task.ScheduledEnd.In(now.Location())
		start := task.ScheduledStart.In(now.Location())
		switch {
		case now.After(end):
			icon = "⚠️"
		case start.Sub(now) <= 48*time.Hour:
			icon = "⏳"
		}
	}

	sb.WriteString(fmt.Sprintf("%s %s", icon, html.EscapeString(strings.TrimSpace(task.Title))))
	if task.Category != "" {
		sb.WriteString(fmt.Sprintf(" <i>(%s)</i>", html.EscapeString(task.Category)))
	}

	if task.Scheduled() {
		start := task.ScheduledStart.In(now.Location())
		end := task.ScheduledEnd.In(now.Location())
		if now.After(end) {
			sb.WriteString(fmt.Sprintf("\n   ⏰ %s %s–%s — <b>missed</b>",
				start.Format("2006-01-02"), start.Format(model.ClockLayout), end.Format(model.ClockLayout)))
		} else {
			sb.WriteString(fmt.Sprintf("\n   ⏰ %s %s–%s",
				start.Format("2006-01-02"), start.Format(model.ClockLayout), end.Format(model.ClockLayout)))
		}
	} else if task.EstimatedMinutes > 0 {
		sb.WriteString(fmt.Sprintf("\n   📝 %d min, unscheduled", task.EstimatedMinutes))
	}

	sb.WriteByte('\n')
	return sb.String()
}
