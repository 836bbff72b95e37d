package util

import "strings"

const (
	KakaoSeeMorePadding = 500
	KakaoZeroWidthSpace = "\u200b"
)

// 카카오톡 '전체보기' 접힘을 만들도록 지침 뒤에 제로폭 문자를 채운다.
func ApplyKakaoSeeMorePadding(text, instruction string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	head := strings.TrimSpace(instruction)

	var b strings.Builder
	b.Grow(len(head) + KakaoSeeMorePadding*len(KakaoZeroWidthSpace) + len(text) + 1)
	b.WriteString(head)
	b.WriteString(strings.Repeat(KakaoZeroWidthSpace, KakaoSeeMorePadding))
	if !strings.HasPrefix(text, "\n") {
		b.WriteByte('\n')
	}
	b.WriteString(text)
	return b.String()
}

// 첫 줄이 header와 같으면 (뒤따르는 빈 줄 포함) 제거한다.
func StripLeadingHeader(text, header string) string {
	if strings.TrimSpace(text) == "" || strings.TrimSpace(header) == "" {
		return text
	}
	rest, ok := strings.CutPrefix(text, header)
	if !ok {
		return text
	}
	for range 2 {
		if r, ok := strings.CutPrefix(rest, "\r\n"); ok {
			rest = r
			continue
		}
		if r, ok := strings.CutPrefix(rest, "\n"); ok {
			rest = r
		}
	}
	return rest
}

// 본문 첫 줄의 헤더를 접힘 지침으로 옮긴다. 헤더가 없으면 fallback 사용.
func ApplySeeMoreWithHeader(text, header, fallback string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	instruction := strings.TrimSpace(header)
	if instruction == "" {
		instruction = strings.TrimSpace(fallback)
	}
	return ApplyKakaoSeeMorePadding(StripLeadingHeader(text, header), instruction)
}
