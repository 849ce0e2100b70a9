package intent

import "testing"

func TestClassify_PriorityOrder(t *testing.T) {
	// Contains both a visualization keyword ("show") and an analysis
	// keyword ("analysis"); visualization wins.
	got := Classify("show me analysis of my steps", nil)
	if got.Kind != Plot {
		t.Errorf("Kind = %s, want plot", got.Kind)
	}
	if got.Metric != MetricSteps {
		t.Errorf("Metric = %q, want steps", got.Metric)
	}
}

func TestClassify_PlotMetrics(t *testing.T) {
	cases := []struct {
		msg    string
		metric string
	}{
		{"plot my steps", MetricSteps},
		{"chart my sleep please", MetricSleep},
		{"graph calories burned", MetricCalories},
		{"visualize distance", MetricDistance},
		{"show flights climbed", MetricFlights},
		{"plot walking speed", MetricWalking},
		{"show my steadiness", MetricWalking},
		{"plot something", MetricSteps}, // no metric keyword defaults to steps
	}
	for _, c := range cases {
		got := Classify(c.msg, nil)
		if got.Kind != Plot {
			t.Errorf("Classify(%q).Kind = %s, want plot", c.msg, got.Kind)
		}
		if got.Metric != c.metric {
			t.Errorf("Classify(%q).Metric = %q, want %q", c.msg, got.Metric, c.metric)
		}
	}
}

func TestClassify_Analysis(t *testing.T) {
	got := Classify("analyze my sleep", nil)
	if got.Kind != Analysis || got.Metric != MetricSleep {
		t.Errorf("got %+v, want analysis/sleep", got)
	}

	// "trends" alone routes to the cross-metric report.
	got = Classify("any trends lately?", nil)
	if got.Kind != Analysis || got.Metric != "" {
		t.Errorf("got %+v, want analysis with empty metric", got)
	}
}

func TestClassify_DataSummary(t *testing.T) {
	if got := Classify("what is in my database", nil); got.Kind != DataSummary {
		t.Errorf("Kind = %s, want data_summary", got.Kind)
	}
}

func TestClassify_MetricQuestion(t *testing.T) {
	got := Classify("steps", nil)
	if got.Kind != MetricQuestion || got.Metric != MetricSteps {
		t.Errorf("got %+v, want metric_question/steps", got)
	}

	// Flights has no text analysis: metric stays empty, composer answers
	// with the metric menu.
	got = Classify("flights", nil)
	if got.Kind != MetricQuestion || got.Metric != "" {
		t.Errorf("got %+v, want metric_question with empty metric", got)
	}
}

func TestClassify_HealthQuestion(t *testing.T) {
	if got := Classify("how is my fitness", nil); got.Kind != HealthQuestion {
		t.Errorf("Kind = %s, want health_question", got.Kind)
	}
}

func TestClassify_CustomPlot(t *testing.T) {
	tables := []string{"daily_walking_speed", "daily_heart_rate"}

	got := Classify("custom view of heart rate", tables)
	if got.Kind != CustomPlot {
		t.Fatalf("Kind = %s, want custom_plot", got.Kind)
	}
	if got.Table != "daily_heart_rate" {
		t.Errorf("Table = %q, want daily_heart_rate", got.Table)
	}

	got = Classify("custom something unrelated", tables)
	if got.Table != "" {
		t.Errorf("Table = %q, want empty when nothing matches", got.Table)
	}
}

func TestClassify_Unknown(t *testing.T) {
	if got := Classify("hello there", nil); got.Kind != Unknown {
		t.Errorf("Kind = %s, want unknown", got.Kind)
	}
}

func TestMatchTable_FirstMatchWins(t *testing.T) {
	tables := []string{"daily_step_count", "daily_step_goal"}
	if got := MatchTable("custom plot of step count and step goal", tables); got != "daily_step_count" {
		t.Errorf("MatchTable = %q, want first match daily_step_count", got)
	}
}
