package rules

import "github.com/jiayuchou/prdgen/internal/model"

// Library groups the ordered rule sets for every extracted field. Rule order
// is load-bearing: requirement ids are allocated in rule order, then match
// order, so reordering a set renumbers its output.
type Library struct {
	functional    Set
	nonFunctional Set
	technical     Set
	objectives    Set
	users         Set
	names         Set
}

// DefaultLibrary returns the built-in bilingual pattern library. Each call
// builds a fresh copy, so one caller extending its library never leaks rules
// into another.
//
// Sentence terminators accept both half-width and full-width punctuation.
// Every pattern carries (?im): conversational transcripts mix case freely,
// and $ must end at each line, not just the final one.
func DefaultLibrary() *Library {
	return &Library{
		functional: NewSet(
			mustRule(KindFunctional, "zh", `(?im)用户(?:需要|想要|希望|应该能够)(.+?)(?:[。.\n]|$)`),
			mustRule(KindFunctional, "zh", `(?im)系统(?:需要|必须|应该)(.+?)(?:[。.\n]|$)`),
			mustRule(KindFunctional, "zh", `(?im)功能(?:包括|需要|要求)(.+?)(?:[。.\n]|$)`),
			mustRule(KindFunctional, "zh", `(?im)实现(.+?)功能`),
			mustRule(KindFunctional, "en", `(?im)I need (.+?)(?:[。.\n]|$)`),
			mustRule(KindFunctional, "en", `(?im)The system should (.+?)(?:[。.\n]|$)`),
			mustRule(KindFunctional, "en", `(?im)We need to (.+?)(?:[。.\n]|$)`),
		),
		nonFunctional: NewSet(
			mustRule(KindNonFunctional, "zh", `(?im)性能(?:要求|需求)(.+?)(?:[。.\n]|$)`),
			mustRule(KindNonFunctional, "zh", `(?im)(?:响应时间|加载时间)(?:需要|应该|不超过)(.+?)(?:[。.\n]|$)`),
			mustRule(KindNonFunctional, "zh", `(?im)(?:并发|用户数)(.+?)(?:[。.\n]|$)`),
			mustRule(KindNonFunctional, "zh", `(?im)(?:安全|权限|认证)(.+?)(?:[。.\n]|$)`),
			mustRule(KindNonFunctional, "zh", `(?im)(?:可用性|稳定性|可靠性)(.+?)(?:[。.\n]|$)`),
			// Captures the whole mandate clause so the urgency marker stays
			// inside the match and survives into priority classification.
			mustRule(KindNonFunctional, "zh", `(?im)(系统必须(?:支持|满足|保证|达到)[^。.\n]+)`),
			mustRule(KindNonFunctional, "en", `(?im)Performance (.+?)(?:[。.\n]|$)`),
			mustRule(KindNonFunctional, "en", `(?im)Security (.+?)(?:[。.\n]|$)`),
			mustRule(KindNonFunctional, "en", `(?im)The system must be (.+?)(?:[。.\n]|$)`),
		),
		technical: NewSet(
			mustRule(KindTechnical, "zh", `(?im)技术(?:栈|架构|选型)(.+?)(?:[。.\n]|$)`),
			mustRule(KindTechnical, "zh", `(?im)使用(.+?)(?:框架|技术|数据库|服务)`),
			mustRule(KindTechnical, "zh", `(?im)(?:API|接口|数据库|服务器)(.+?)(?:[。.\n]|$)`),
			mustRule(KindTechnical, "zh", `(?im)(?:部署|环境|平台)(.+?)(?:[。.\n]|$)`),
			mustRule(KindTechnical, "en", `(?im)Using (.+?) framework`),
			mustRule(KindTechnical, "en", `(?im)Built with (.+?)(?:[。.\n]|$)`),
			mustRule(KindTechnical, "en", `(?im)Database (.+?)(?:[。.\n]|$)`),
			mustRule(KindTechnical, "en", `(?im)API (.+?)(?:[。.\n]|$)`),
		),
		objectives: NewSet(
			mustRule(KindObjective, "zh", `(?im)目标是(.+?)(?:[。.\n]|$)`),
			mustRule(KindObjective, "zh", `(?im)目的是(.+?)(?:[。.\n]|$)`),
			mustRule(KindObjective, "zh", `(?im)希望(?:实现|达到)(.+?)(?:[。.\n]|$)`),
			mustRule(KindObjective, "en", `(?im)The goal is (.+?)(?:[。.\n]|$)`),
			mustRule(KindObjective, "en", `(?im)We want to (.+?)(?:[。.\n]|$)`),
			mustRule(KindObjective, "en", `(?im)The objective is (.+?)(?:[。.\n]|$)`),
		),
		users: NewSet(
			mustRule(KindUser, "zh", `(?im)(?:目标)?用户(?:是|包括|主要是)(.+?)(?:[。.\n]|$)`),
			mustRule(KindUser, "zh", `(?im)面向(.+?)用户`),
			mustRule(KindUser, "en", `(?im)Target users (.+?)(?:[。.\n]|$)`),
			mustRule(KindUser, "en", `(?im)Users are (.+?)(?:[。.\n]|$)`),
			mustRule(KindUser, "en", `(?im)For (.+?) users`),
		),
		names: NewSet(
			mustRule(KindName, "zh", `(?im)项目(?:名称|叫做|是)(.+?)(?:[。.\n]|$)`),
			mustRule(KindName, "zh", `(?im)开发(.+?)(?:系统|平台|应用|项目)`),
			mustRule(KindName, "en", `(?im)Project (?:name is )?(.+?)(?:[。.\n]|$)`),
			mustRule(KindName, "en", `(?im)Building (.+?) (?:system|platform|application)`),
		),
	}
}

// Functional returns the functional-requirement rule set.
func (l *Library) Functional() Set { return l.functional }

// NonFunctional returns the non-functional-requirement rule set.
func (l *Library) NonFunctional() Set { return l.nonFunctional }

// Technical returns the technical-requirement rule set.
func (l *Library) Technical() Set { return l.technical }

// Objectives returns the project-objective rule set.
func (l *Library) Objectives() Set { return l.objectives }

// Users returns the target-user rule set.
func (l *Library) Users() Set { return l.users }

// Names returns the project-name rule set.
func (l *Library) Names() Set { return l.names }

// ForCategory returns the rule set feeding a requirement category.
func (l *Library) ForCategory(c model.Category) Set {
	switch c {
	case model.CategoryFunctional:
		return l.functional
	case model.CategoryNonFunctional:
		return l.nonFunctional
	case model.CategoryTechnical:
		return l.technical
	}
	return Set{}
}

// Extend appends validated user-supplied rules to their rule sets. Extras
// run after the built-in rules, so configuration can only add matches, never
// suppress built-in ones. The first invalid pattern aborts the whole extend
// so a half-applied configuration never goes unnoticed.
func (l *Library) Extend(patterns []model.PatternConfig) error {
	for _, p := range patterns {
		kind, err := ParseKind(p.Kind)
		if err != nil {
			return err
		}
		r, err := New(kind, p.Lang, p.Expr)
		if err != nil {
			return err
		}
		switch kind {
		case KindFunctional:
			l.functional = l.functional.with(r)
		case KindNonFunctional:
			l.nonFunctional = l.nonFunctional.with(r)
		case KindTechnical:
			l.technical = l.technical.with(r)
		case KindObjective:
			l.objectives = l.objectives.with(r)
		case KindUser:
			l.users = l.users.with(r)
		case KindName:
			l.names = l.names.with(r)
		}
	}
	return nil
}
