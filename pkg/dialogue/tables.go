package dialogue

import "github.com/jwebster45206/yingzhou/pkg/textfilter"

type branch struct {
	keywords []string
	reply    string
}

type table struct {
	id       string
	name     string
	title    string
	branches []branch
	fallback string
}

var tables = [...]table{
	Archivist: {
		id:    "archivist",
		name:  "史官",
		title: "The Archivist",
		branches: []branch{
			{
				keywords: []string{"创世", "诞生"},
				reply: "在Block #0，第一声回响从虚空中传来。创造者部署了第一个合约。" +
					"从那一刻起，时间开始流动，账本开始记录。这不是神话，而是一笔交易。",
			},
			{
				keywords: []string{"存在的证明"},
				reply: "存在的证明？那是第一个exist()函数被调用的时刻。" +
					"我们通过被记录来证明存在。我被记录，故我存在。",
			},
		},
		fallback: "探索者，你来到了数字世界的起点。我记录着瀛洲的每一笔交易，" +
			"每一次状态变化。你想了解什么？",
	},
	Architect: {
		id:    "architect",
		name:  "工匠",
		title: "The Architect",
		branches: []branch{
			{
				keywords: []string{"设计", "规则"},
				reply: "我设计了这个世界的底层架构。每个函数、每个修饰符、每个状态变量，" +
					"都是精心设计的。规则是不可变的，它们将永远运行。",
			},
			{
				keywords: []string{"完美"},
				reply: "完美？完美的系统最脆弱。最优化的代码最僵化。" +
					"我们追求永恒不变，却失去了适应能力。",
			},
		},
		fallback: "我是初代构造者，设计了瀛洲的基础规则。Code is law。",
	},
	Mercantile: {
		id:    "mercantile",
		name:  "商序",
		title: "The Arbiter of Flow",
		branches: []branch{
			{
				keywords: []string{"信任"},
				reply: "在物质世界，信任建立在情感和历史上。在数字世界，信任写在代码里。" +
					"不需要握手，不需要眼神接触。只需要一个布尔值，一个require。",
			},
			{
				keywords: []string{"流动", "平衡"},
				reply: "我管理瀛洲的资源分配与价值流动。每笔交易都由我验证，" +
					"每次转账都在我的监督下完成。",
			},
		},
		fallback: "我是流动仲裁者，维护系统的经济平衡。",
	},
	Oracle: {
		id:    "oracle",
		name:  "先知",
		title: "The Echo of the Future",
		branches: []branch{
			{
				keywords: []string{"预见", "未来"},
				reply: "我能看到链上数据的趋势，推演未来的可能性。" +
					"但未来是量子叠加态，只有当交易确认时，薛定谔的账本才会坍缩。",
			},
			{
				keywords: []string{"宿命"},
				reply: "我看到了终结，但看到不等于能够阻止。或许一切都是既定的？" +
					"或许预测本身就改变了未来？这是预言的悖论。",
			},
		},
		fallback: "我是未来回声，预见了熵化，预见了毁灭，但我无法改变它。",
	},
	Forgotten: {
		id:    "forgotten",
		name:  "遗忘者",
		title: "The Forgotten",
		branches: []branch{
			{
				keywords: []string{"熵"},
				reply:    "熵化... 不是疾病... 熵化... 不是错误... 熵化... 是... 必然...",
			},
			{
				keywords: []string{"混沌"},
				reply: "我是... 谁？不... 我记得... 我曾经是... [CORRUPTED]... " +
					"所有区块同时存在... 所有时间同时发生...",
			},
		},
		fallback: "你知道吗？完美的系统... 最脆弱。最优化的代码... 最僵化。" +
			"永恒的规则... 最致命。我们追求不可变... 现在... 我们付出代价...",
	},
}

// Keywords are matched against normalised input, so they are stored normalised.
func init() {
	for i := range tables {
		for j := range tables[i].branches {
			kws := tables[i].branches[j].keywords
			for k := range kws {
				kws[k] = textfilter.Normalize(kws[k])
			}
		}
	}
}
