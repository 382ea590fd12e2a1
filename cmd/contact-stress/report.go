package main

import (
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/rigid/world"
)

type Report struct {
	// Configuration
	Duration time.Duration
	Scene    Scene

	// Results
	TotalSteps    int64
	TotalTime     time.Duration
	StepTime      Stats
	Pipeline      *world.PipelineStats
	Contacts      int64
	JointRows     int64
	MaxContacts   int
	Objects       int
	Joints        int
	Live          int
	MemStatsStart runtime.MemStats
	MemStatsEnd   runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		if sample < s.Min {
			s.Min = sample
		}
		if sample > s.Max {
			s.Max = sample
		}
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Contact Stress Report

## Scene
- **Run Duration:** {{.Duration}}
- **Bodies:** {{.Scene.Bodies}} ({{.Scene.Sensors}} sensors, floor: {{.Scene.Floor}})
- **Joints:** {{.Joints}}
- **Solver Workers:** {{.Scene.Workers}}
- **Time Step:** {{.Scene.Dt}}

## Results
- **Total Steps:** {{.TotalSteps}}
- **Total Test Time:** {{.TotalTime}}
- **Step Time:**
  - **Avg:** {{.StepTime.Avg}}
  - **Min:** {{.StepTime.Min}}
  - **Max:** {{.StepTime.Max}}
- **Contacts Solved:** {{.Contacts}} (max {{.MaxContacts}} per step)
- **Joint Rows Solved:** {{.JointRows}}
- **Registered Objects:** {{.Objects}}
- **Live Arena Slots:** {{.Live}}
{{with .Pipeline}}
## Systems
{{range .Systems}}- **{{.Name}}:** avg {{.AvgDuration}}, max {{.MaxDuration}}, runs {{.ExecutionCount}}
{{end}}{{end}}
## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
`

	fm := template.FuncMap{
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
