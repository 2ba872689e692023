package scraper

import (
	"strings"

	"scout/utils/logging"
	"scout/utils/types"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// extractField resolves one descriptor against a live page. Failures
// never escape: a broken selector or a dead element degrades to the
// descriptor's empty value so sibling descriptors still run.
func extractField(page playwright.Page, d types.FieldDescriptor) any {
	matches, err := page.QuerySelectorAll(d.Query)
	if err != nil {
		logging.AppLogger.Warn("selector evaluation failed",
			zap.String("field", d.Name), zap.String("query", d.Query), zap.Error(err))
		return emptyValue(d)
	}

	switch d.Kind {
	case types.KindExists:
		return len(matches) > 0
	case types.KindCount:
		return len(matches)
	}

	if len(matches) == 0 {
		return emptyValue(d)
	}

	if d.Multiple {
		values := make([]any, 0, len(matches))
		for _, el := range matches {
			value, err := extractOne(el, d)
			if err != nil {
				logging.AppLogger.Warn("element extraction failed",
					zap.String("field", d.Name), zap.Error(err))
				values = append(values, nil)
				continue
			}
			values = append(values, value)
		}
		return values
	}

	value, err := extractOne(matches[0], d)
	if err != nil {
		logging.AppLogger.Warn("element extraction failed",
			zap.String("field", d.Name), zap.Error(err))
		return nil
	}
	return value
}

// extractOne pulls a single value from one element according to kind.
func extractOne(el playwright.ElementHandle, d types.FieldDescriptor) (any, error) {
	switch d.Kind {
	case types.KindText:
		text, err := el.TextContent()
		if err != nil {
			return nil, err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return nil, nil
		}
		return text, nil
	case types.KindInnerText:
		return el.InnerText()
	case types.KindHTML:
		return el.InnerHTML()
	case types.KindAttribute:
		if d.Attribute == "" {
			return nil, nil
		}
		value, err := el.GetAttribute(d.Attribute)
		if err != nil {
			return nil, err
		}
		if value == "" {
			return nil, nil
		}
		return value, nil
	default:
		return nil, nil
	}
}

func emptyValue(d types.FieldDescriptor) any {
	switch d.Kind {
	case types.KindExists:
		return false
	case types.KindCount:
		return 0
	}
	if d.Multiple {
		return []any{}
	}
	return nil
}
