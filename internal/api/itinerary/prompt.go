package itinerary

import (
	"fmt"
	"strings"

	"github.com/S-yujin/Gildam/internal/types"
)

const maxKeywordChars = 220

// emotionStyles maps a user emotion onto the mood phrasing used in the prompt.
var emotionStyles = map[string]string{
	"차분":  "조용하고 평화로운",
	"힐링":  "여유롭고 편안한",
	"로맨틱": "감성적이고 아름다운",
	"들뜸":  "활기차고 재미있는",
	"활기":  "에너지 넘치는",
	"우울":  "위로가 되는 따뜻한",
}

// themeKeywords expands a selected theme into related keyword hints.
var themeKeywords = map[string]string{
	"바다":    "해변, 해안가, 오션뷰",
	"자연":    "공원, 숲길, 자연경관",
	"산책":    "걷기 좋은 길, 프롬나드",
	"전망":    "뷰포인트, 전망대, 스카이라인",
	"야경":    "야경 명소, 야간 조명",
	"역사":    "문화재, 박물관, 전통",
	"공방/체험": "핸드메이드, 체험 프로그램",
	"카페":    "감성 카페, 디저트",
	"시장/맛집": "로컬 맛집, 전통시장",
	"축제":    "이벤트, 문화행사",
	"쇼핑":    "상점가, 편집숍",
	"포토스팟":  "인스타그래머블, 사진 명소",
}

// BuildPrompt renders the deterministic generation prompt: traveler profile,
// the candidate list the model must stay inside, the strict rules and the
// exact output schema.
func BuildPrompt(req types.TripRequest, candidates []types.Place) string {
	emotionDesc := describe(req.Emotions, emotionStyles, "사용자 감정")
	themeDesc := describe(req.Themes, themeKeywords, "선택 테마")
	nights := req.Days - 1
	if nights < 0 {
		nights = 0
	}

	var b strings.Builder
	b.WriteString("당신은 부산 지역 전문 여행 플래너 AI입니다.\n")
	b.WriteString("아래 제공된 실제 장소 목록 내부에서만 일정을 구성하세요. 목록에 없는 장소는 절대 생성하지 마세요.\n\n")

	b.WriteString("## 여행자 프로필\n")
	fmt.Fprintf(&b, "- 여행 기간: %s ~ %s (%d박 %d일)\n", req.Start, req.End, nights, req.Days)
	fmt.Fprintf(&b, "- 여행 목적: %s\n", req.Purpose)
	fmt.Fprintf(&b, "- 현재 감정 상태: %s\n", emotionDesc)
	fmt.Fprintf(&b, "- 원하는 테마: %s\n\n", themeDesc)

	b.WriteString("## 사용 가능한 장소 목록 (필수 제약)\n")
	b.WriteString("반드시 이 목록 안에서만 선택하고, 아래 필드들을 원문 그대로 사용하세요.\n\n")
	b.WriteString(renderCandidatesBlock(candidates))
	b.WriteString("\n\n")

	b.WriteString("## 엄격 규칙 (하나라도 위반하면 전체 출력을 다시 생성하라)\n")
	b.WriteString("1) 목록 내부만 사용: 장소명, 주소, 좌표, 카테고리는 입력 목록 값 그대로 복사(철자/띄어쓰기 변경 금지). 목록에 없는 장소/주소/좌표 금지.\n")
	b.WriteString("2) 비인기 스팟 우선: 입력 목록은 이미 초유명 스팟을 제외함. 로컬/한적/뷰 포인트를 우선 반영.\n")
	fmt.Fprintf(&b, "3) 감정·테마 매칭: '%s' 분위기를 반영하고 '%s'와 관련된 장소만 포함. 근거는 각 장소의 keywords에서 찾되, 약하면 제외.\n", emotionDesc, themeDesc)
	b.WriteString("4) 동선 최적화: 하루는 서로 가까운 곳으로 묶기. 가능하면 같은 구 중심, 하루 이동 반경 10km 이내. 중복 방문 금지.\n")
	b.WriteString("5) 시간대 구성: 1일차 시작 09:00~10:00 사이, 마지막 날 종료 17:00 이전. 점심(12:00~14:00), 저녁(18:00~20:00)은 반드시 식당 포함. 하루 총 5~6곳.\n")
	b.WriteString("6) 카테고리 균형: 하루 기준 관광지 2~3, 식당 2(점심·저녁), 카페 0~1. 체험/쇼핑은 테마와 맞으면 포함.\n")
	b.WriteString("7) 시간/형식 유효성: 모든 시간은 \"HH:MM\"(24시간제, 0패딩), start_time < end_time, duration(분)은 양의 정수, latitude/longitude는 숫자. 매 날짜별 장소 배열은 시간 오름차순.\n")
	b.WriteString("8) 출력 형식: JSON 외 텍스트·마크다운·주석 금지. 지정 스키마의 키 이름 정확히 지킬 것. 필드 누락/빈 문자열/\"null\"/\"NaN\" 금지.\n\n")

	b.WriteString("## 출력 스키마 (정확히 이 구조만)\n")
	fmt.Fprintf(&b, `{
  "summary": "이번 여행은 %s한 분위기로 %s 중심의 일정입니다.",
  "itinerary": [
    {
      "day": 1,
      "date": "%s",
      "title": "첫날 제목",
      "places": [
        {
          "name": "장소 이름(목록 그대로)",
          "address": "주소(목록 그대로)",
          "latitude": 35.xxxx,
          "longitude": 129.xxxx,
          "start_time": "09:00",
          "end_time": "10:30",
          "duration": 90,
          "category": "관광지",
          "reason": "감정/테마와의 연결 근거를 1~2문장으로 간결히",
          "tips": "선택사항: 현지 팁/시간대/포토스팟 등"
        }
      ]
    }
  ]
}`, emotionDesc, themeDesc, req.Start)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "주의: 각 날짜(day=1..%d, date는 해당 날짜)마다 5~6개 places를 채워 작성. 마지막 날은 17:00 이전 종료, 매일 점심·저녁 식당 포함.\n\n", req.Days)
	b.WriteString("지금 위 조건을 모두 충족하는 JSON만 출력하세요.\n")

	return b.String()
}

// renderCandidatesBlock renders each candidate as one pipe-delimited line,
// truncating the keyword blob so the prompt stays bounded.
func renderCandidatesBlock(candidates []types.Place) string {
	lines := make([]string, 0, len(candidates))
	for _, c := range candidates {
		keywords := c.Keywords
		if len([]rune(keywords)) > maxKeywordChars {
			keywords = strings.TrimRight(string([]rune(keywords)[:maxKeywordChars]), " ") + "…"
		}
		lines = append(lines, fmt.Sprintf(
			"- name:%s | address:%s | lat:%g,lng:%g | category:%s | keywords:%s | gu:%s",
			c.Name, c.Address, c.Latitude, c.Longitude, c.Category, keywords, c.District,
		))
	}
	return strings.Join(lines, "\n")
}

func describe(values []string, dict map[string]string, empty string) string {
	if len(values) == 0 {
		return empty
	}
	described := make([]string, 0, len(values))
	for _, v := range values {
		if d, ok := dict[v]; ok {
			described = append(described, d)
		} else {
			described = append(described, v)
		}
	}
	return strings.Join(described, ", ")
}
