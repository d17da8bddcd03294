package extract

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/jiayuchou/prdgen/internal/classify"
	"github.com/jiayuchou/prdgen/internal/model"
	"github.com/jiayuchou/prdgen/internal/rules"
)

// sampleConversation is a bilingual transcript exercising all three
// requirement categories.
const sampleConversation = `
用户：我想开发一个在线教育平台，主要面向大学生和职场人士。
AI：好的，请详细描述一下您的需求。

用户：系统需要支持在线视频课程播放，用户注册登录功能，课程管理功能。
用户还应该能够购买课程，观看进度跟踪，还需要讨论区功能让学生互动。

AI：明白了。对于性能方面有什么要求吗？

用户：系统必须支持至少1000个并发用户，响应时间不应该超过3秒。
安全方面需要保护用户隐私数据，支持SSL加密。

AI：技术栈方面有偏好吗？

用户：前端使用React，后端用Python Django，数据库用PostgreSQL。
需要部署在AWS云服务上。目标是创建一个现代化的学习平台，
提升在线教育体验。
`

func newRequirementExtractor() *RequirementExtractor {
	return NewRequirementExtractor(rules.DefaultLibrary(), classify.NewClassifier())
}

func TestRequirementExtractor_ConcurrencyMandate(t *testing.T) {
	e := newRequirementExtractor()

	reqs := e.Extract("系统必须支持至少1000个并发用户")

	if len(reqs.NonFunctional) == 0 {
		t.Fatal("expected a non-functional requirement")
	}

	item := reqs.NonFunctional[0]
	if item.Priority != model.PriorityHigh {
		t.Errorf("expected High priority, got %v", item.Priority)
	}
	if item.Category != model.CategoryNonFunctional {
		t.Errorf("expected Non-functional category, got %v", item.Category)
	}
	if item.ID != "N001" {
		t.Errorf("expected id N001, got %s", item.ID)
	}
	if !strings.Contains(item.Description, "1000个并发用户") {
		t.Errorf("unexpected description %q", item.Description)
	}
}

func TestRequirementExtractor_EnglishFunctional(t *testing.T) {
	e := newRequirementExtractor()

	reqs := e.Extract("I need a login page")

	if len(reqs.Functional) != 1 {
		t.Fatalf("expected 1 functional requirement, got %d", len(reqs.Functional))
	}

	item := reqs.Functional[0]
	if item.ID != "F001" {
		t.Errorf("expected id F001, got %s", item.ID)
	}
	if item.Description != "a login page" {
		t.Errorf("expected description %q, got %q", "a login page", item.Description)
	}
	if item.Priority != model.PriorityLow {
		t.Errorf("expected Low priority (no keyword in the capture), got %v", item.Priority)
	}
	if item.Category != model.CategoryFunctional {
		t.Errorf("expected Functional category, got %v", item.Category)
	}
	if item.Source != model.SourceConversation {
		t.Errorf("expected provenance tag %q, got %q", model.SourceConversation, item.Source)
	}
}

func TestRequirementExtractor_AllCategoriesOnSample(t *testing.T) {
	e := newRequirementExtractor()

	reqs := e.Extract(sampleConversation)

	if len(reqs.Functional) == 0 {
		t.Error("expected functional requirements from sample conversation")
	}
	if len(reqs.NonFunctional) == 0 {
		t.Error("expected non-functional requirements from sample conversation")
	}
	if len(reqs.Technical) == 0 {
		t.Error("expected technical requirements from sample conversation")
	}
}

func TestRequirementExtractor_IDsUniqueAndIncreasing(t *testing.T) {
	e := newRequirementExtractor()

	reqs := e.Extract(sampleConversation)

	for _, items := range [][]model.RequirementItem{reqs.Functional, reqs.NonFunctional, reqs.Technical} {
		seen := make(map[string]bool)
		last := ""
		for _, item := range items {
			if seen[item.ID] {
				t.Errorf("duplicate id %s", item.ID)
			}
			seen[item.ID] = true
			if last != "" && item.ID <= last {
				t.Errorf("ids not strictly increasing: %s then %s", last, item.ID)
			}
			last = item.ID
		}
	}

	if len(reqs.Functional) > 0 && reqs.Functional[0].ID != "F001" {
		t.Errorf("expected first functional id F001, got %s", reqs.Functional[0].ID)
	}
	if len(reqs.NonFunctional) > 0 && reqs.NonFunctional[0].ID != "N001" {
		t.Errorf("expected first non-functional id N001, got %s", reqs.NonFunctional[0].ID)
	}
	if len(reqs.Technical) > 0 && reqs.Technical[0].ID != "T001" {
		t.Errorf("expected first technical id T001, got %s", reqs.Technical[0].ID)
	}
}

func TestRequirementExtractor_TitleIsPrefixOfDescription(t *testing.T) {
	e := newRequirementExtractor()

	reqs := e.Extract(sampleConversation)

	check := func(items []model.RequirementItem) {
		for _, item := range items {
			if item.Description == "" {
				t.Errorf("%s: empty description", item.ID)
			}
			title := strings.TrimSuffix(item.Title, "...")
			if !strings.HasPrefix(item.Description, title) {
				t.Errorf("%s: title %q is not a prefix of description %q", item.ID, item.Title, item.Description)
			}
			if n := utf8.RuneCountInString(title); n > maxTitleRunes {
				t.Errorf("%s: title has %d runes before the marker, cap is %d", item.ID, n, maxTitleRunes)
			}
		}
	}

	check(reqs.Functional)
	check(reqs.NonFunctional)
	check(reqs.Technical)
}

func TestRequirementExtractor_TitleTruncation(t *testing.T) {
	e := newRequirementExtractor()

	long := strings.Repeat("x", 60)
	reqs := e.Extract("I need " + long + ".")

	if len(reqs.Functional) != 1 {
		t.Fatalf("expected 1 functional requirement, got %d", len(reqs.Functional))
	}

	item := reqs.Functional[0]
	want := strings.Repeat("x", 50) + "..."
	if item.Title != want {
		t.Errorf("expected truncated title %q, got %q", want, item.Title)
	}
	if item.Description != long {
		t.Errorf("expected full description preserved, got %q", item.Description)
	}
}

func TestRequirementExtractor_TitleTruncationCountsRunes(t *testing.T) {
	e := newRequirementExtractor()

	long := strings.Repeat("稳", 60)
	reqs := e.Extract("系统必须支持" + long)

	if len(reqs.NonFunctional) == 0 {
		t.Fatal("expected a non-functional requirement")
	}

	item := reqs.NonFunctional[0]
	if !strings.HasSuffix(item.Title, "...") {
		t.Fatalf("expected truncated title, got %q", item.Title)
	}
	if n := utf8.RuneCountInString(strings.TrimSuffix(item.Title, "...")); n != 50 {
		t.Errorf("expected 50-rune title prefix for CJK text, got %d runes", n)
	}
}

func TestRequirementExtractor_ShortTitleUnmarked(t *testing.T) {
	e := newRequirementExtractor()

	reqs := e.Extract("I need a login page")
	if len(reqs.Functional) != 1 {
		t.Fatalf("expected 1 functional requirement, got %d", len(reqs.Functional))
	}
	if reqs.Functional[0].Title != "a login page" {
		t.Errorf("expected untruncated title without marker, got %q", reqs.Functional[0].Title)
	}
}

func TestRequirementExtractor_DuplicateTextKeptAsDistinctItems(t *testing.T) {
	e := newRequirementExtractor()

	// Two different rules capture identical text; both survive with
	// distinct ids, unlike objectives and users which are deduplicated.
	reqs := e.Extract("用户需要一个数据分析模块。系统需要一个数据分析模块。")

	if len(reqs.Functional) != 2 {
		t.Fatalf("expected 2 functional requirements, got %d", len(reqs.Functional))
	}
	if reqs.Functional[0].Description != reqs.Functional[1].Description {
		t.Errorf("expected identical descriptions, got %q and %q",
			reqs.Functional[0].Description, reqs.Functional[1].Description)
	}
	if reqs.Functional[0].ID == reqs.Functional[1].ID {
		t.Errorf("expected distinct ids, both were %s", reqs.Functional[0].ID)
	}
}

func TestRequirementExtractor_ShortMatchesFiltered(t *testing.T) {
	e := newRequirementExtractor()

	// 登录 trims to 2 runes, 注册登录啊 to exactly 5; both are at or
	// under the threshold and never become requirements.
	for _, text := range []string{"系统需要登录。", "系统需要注册登录啊。"} {
		reqs := e.Extract(text)
		if total := reqs.Total(); total != 0 {
			t.Errorf("expected short match filtered for %q, got %d items", text, total)
		}
	}
}

func TestRequirementExtractor_EmptyInput(t *testing.T) {
	e := newRequirementExtractor()

	reqs := e.Extract("")
	if len(reqs.Functional) != 0 || len(reqs.NonFunctional) != 0 || len(reqs.Technical) != 0 {
		t.Errorf("expected empty requirements for empty input, got %d/%d/%d",
			len(reqs.Functional), len(reqs.NonFunctional), len(reqs.Technical))
	}
}

func TestRequirementExtractor_RunsAreIndependent(t *testing.T) {
	e := newRequirementExtractor()

	first := e.Extract("I need a login page")
	second := e.Extract("I need a login page")

	if first.Functional[0].ID != "F001" || second.Functional[0].ID != "F001" {
		t.Errorf("expected both runs to start at F001, got %s and %s",
			first.Functional[0].ID, second.Functional[0].ID)
	}
}
