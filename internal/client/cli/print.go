package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dmitrijs2005/fittrack/internal/client/models"
)

func printUser(w io.Writer, u *models.User) {
	fmt.Fprintf(w, "Name:   %s\n", u.Name)
	if u.Email != "" {
		fmt.Fprintf(w, "Email:  %s\n", u.Email)
	}
	if u.Age != nil {
		fmt.Fprintf(w, "Age:    %d\n", *u.Age)
	}
	if u.Weight != nil {
		fmt.Fprintf(w, "Weight: %.1f kg\n", *u.Weight)
	}
	if u.Height != nil {
		fmt.Fprintf(w, "Height: %.1f cm\n", *u.Height)
	}
	if u.Goal != nil {
		fmt.Fprintf(w, "Goal:   %s\n", *u.Goal)
	}
}

func formatDate(w *models.Workout) string {
	if w.Date == nil {
		return "-"
	}
	return w.Date.Format(dateLayout)
}

func printWorkouts(w io.Writer, list []models.Workout) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No workouts yet")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tTITLE\tTYPE\tMIN\tKCAL\tKM")
	for i := range list {
		wk := &list[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%.2f\n",
			wk.ID, formatDate(wk), wk.Title, wk.Type, wk.Duration, wk.Calories, wk.Distance)
	}
	_ = tw.Flush()
}

func printWorkout(w io.Writer, wk *models.Workout) {
	fmt.Fprintf(w, "ID:       %s\n", wk.ID)
	fmt.Fprintf(w, "Title:    %s\n", wk.Title)
	fmt.Fprintf(w, "Type:     %s\n", wk.Type)
	fmt.Fprintf(w, "Date:     %s\n", formatDate(wk))
	fmt.Fprintf(w, "Duration: %d min\n", wk.Duration)
	fmt.Fprintf(w, "Calories: %d\n", wk.Calories)
	fmt.Fprintf(w, "Distance: %.2f km\n", wk.Distance)
	if wk.Notes != "" {
		fmt.Fprintf(w, "Notes:    %s\n", wk.Notes)
	}
}

func printStats(w io.Writer, s *models.Stats) {
	fmt.Fprintf(w, "Total workouts:  %d\n", s.TotalWorkouts)
	fmt.Fprintf(w, "Total calories:  %d\n", s.TotalCalories)
	fmt.Fprintf(w, "Total duration:  %d min\n", s.TotalDuration)
	fmt.Fprintf(w, "This week:       %d\n", s.WeeklyWorkouts)
}

func printGoals(w io.Writer, list []models.Goal) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No goals yet")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tPROGRESS\tDEADLINE")
	for _, g := range list {
		deadline := "-"
		if g.Deadline != nil {
			deadline = g.Deadline.Format(dateLayout)
		}
		pct := 0.0
		if g.Target > 0 {
			pct = g.Current / g.Target * 100
		}
		fmt.Fprintf(tw, "%s\t%s\t%.1f/%.1f (%.0f%%)\t%s\n", g.ID, g.Type, g.Current, g.Target, pct, deadline)
	}
	_ = tw.Flush()
}
